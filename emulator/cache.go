package emulator

import "github.com/zeozeozeo/goscar/bfin"

// Default number of data cache lines (16KB direct mapped)
const CACHE_NR_LINES = 512

type CacheLine struct {
	Tag   uint32 // Offset of the first byte of the line in the backing memory
	Valid bool
	Dirty bool // Line holds data not yet written back
	Data  [bfin.CACHE_LINE_SIZE]byte
}

// Write-back, write-allocate direct mapped data cache in front of one memory.
// The DMA controller bypasses it, so software has to flush lines before
// handing buffers to hardware and invalidate them before reading what the
// hardware wrote
type DataCache struct {
	Lines   []CacheLine
	Backing *Memory

	Hits       uint64
	Misses     uint64
	WriteBacks uint64
}

// Returns a new DataCache with `nrLines` invalid lines in front of `backing`
func NewDataCache(backing *Memory, nrLines int) *DataCache {
	if nrLines <= 0 {
		panicFmt("cache: invalid line count %d", nrLines)
	}
	return &DataCache{
		Lines:   make([]CacheLine, nrLines),
		Backing: backing,
	}
}

func lineOffset(offset uint32) uint32 {
	return offset &^ (bfin.CACHE_LINE_SIZE - 1)
}

func (cache *DataCache) index(tag uint32) int {
	return int((tag / bfin.CACHE_LINE_SIZE) % uint32(len(cache.Lines)))
}

func (cache *DataCache) writeBack(line *CacheLine) {
	if line.Valid && line.Dirty {
		copy(cache.Backing.Data[line.Tag:], line.Data[:])
		line.Dirty = false
		cache.WriteBacks++
	}
}

// Returns the line holding `offset`, filling it from the backing memory on
// a miss
func (cache *DataCache) fetch(offset uint32) *CacheLine {
	tag := lineOffset(offset)
	line := &cache.Lines[cache.index(tag)]
	if line.Valid && line.Tag == tag {
		cache.Hits++
		return line
	}

	cache.Misses++
	cache.writeBack(line) // evict
	line.Tag = tag
	line.Valid = true
	line.Dirty = false
	copy(line.Data[:], cache.Backing.Data[tag:tag+bfin.CACHE_LINE_SIZE])
	return line
}

// Loads a value at `offset`. The access must not cross a line boundary
func (cache *DataCache) Load(offset uint32, size AccessSize) uint32 {
	line := cache.fetch(offset)
	pos := offset - line.Tag
	var v uint32
	for i := uint32(0); i < uint32(size); i++ {
		v |= uint32(line.Data[pos+i]) << (i * 8)
	}
	return v
}

// Stores `val` into `offset`. The access must not cross a line boundary
func (cache *DataCache) Store(offset uint32, size AccessSize, val uint32) {
	line := cache.fetch(offset)
	pos := offset - line.Tag
	for i := uint32(0); i < uint32(size); i++ {
		line.Data[pos+i] = byte(val >> (i * 8))
	}
	line.Dirty = true
}

// Calls `fn` for every valid line overlapping [offset, offset+length)
func (cache *DataCache) eachLine(offset, length uint32, fn func(line *CacheLine)) {
	if length == 0 {
		return
	}
	end := alignUp(uint64(offset)+uint64(length), uint64(bfin.CACHE_LINE_SIZE))
	if size := uint64(cache.Backing.Size()); end > size {
		end = size
	}
	for tag := uint64(lineOffset(offset)); tag < end; tag += uint64(bfin.CACHE_LINE_SIZE) {
		line := &cache.Lines[cache.index(uint32(tag))]
		if line.Valid && line.Tag == uint32(tag) {
			fn(line)
		}
	}
}

// Writes back dirty lines overlapping [offset, offset+length). Lines stay valid
func (cache *DataCache) Flush(offset, length uint32) {
	cache.eachLine(offset, length, cache.writeBack)
}

// Writes back and then drops lines overlapping [offset, offset+length)
func (cache *DataCache) FlushInvalidate(offset, length uint32) {
	cache.eachLine(offset, length, func(line *CacheLine) {
		cache.writeBack(line)
		line.Valid = false
	})
}

// Returns true if the line holding `offset` is cached and dirty
func (cache *DataCache) IsDirty(offset uint32) bool {
	tag := lineOffset(offset)
	line := &cache.Lines[cache.index(tag)]
	return line.Valid && line.Tag == tag && line.Dirty
}
