package cg14

import (
	"fmt"
	"sort"
)

// region is one range of the physical address space
type region struct {
	name  string
	base  uint64
	size  uint64
	read  func(addr uint64, size Size) uint32
	write func(addr uint64, size Size, val uint32)
}

func (r *region) contains(addr uint64) bool {
	return addr >= r.base && addr-r.base < r.size
}

// RegionInfo describes a mapped range, for listings
type RegionInfo struct {
	Name string
	Base uint64
	Size uint64
}

func (r RegionInfo) String() string {
	return fmt.Sprintf("%09x-%09x %s", r.Base, r.Base+r.Size-1, r.Name)
}

// Bus routes physical addresses to the board's regions: registers,
// vram, and the stand-ins for the SX unit, the missing vsimms and the
// audio chip. Unclaimed addresses read as 0.
type Bus struct {
	regions []region
	log     *diagLog
}

// NewBus maps d at the bases from its Config
func NewBus(d *Device) *Bus {
	b := &Bus{log: d.log}
	b.add(region{
		name: "cg14 regs", base: d.cfg.CtrlBase, size: ctrlRegionSize,
		read: d.ReadCtrl, write: d.WriteCtrl,
	})
	b.add(region{
		name: "cg14 vram", base: d.cfg.VRAMBase, size: vramSlotSize,
		read: d.ReadVRAM, write: d.WriteVRAM,
	})

	sx := newSXStub(d.log)
	b.add(region{name: "sx", base: sxBase, size: sxSize, read: sx.read, write: sx.write})

	bad := newBadMemStub(d.log)
	for _, base := range badMemBases {
		b.add(region{name: "vsimm", base: base, size: badMemSize, read: bad.read, write: bad.write})
	}
	b.add(region{name: "dbri", base: dbriBase, size: dbriSize, read: bad.read, write: bad.write})

	sort.Slice(b.regions, func(i, j int) bool { return b.regions[i].base < b.regions[j].base })
	return b
}

func (b *Bus) add(r region) {
	b.regions = append(b.regions, r)
}

func (b *Bus) find(addr uint64) *region {
	for i := range b.regions {
		if b.regions[i].contains(addr) {
			return &b.regions[i]
		}
	}
	return nil
}

// Read performs a guest load
func (b *Bus) Read(addr uint64, size Size) uint32 {
	if r := b.find(addr); r != nil {
		return r.read(addr, size)
	}
	b.log.errorf("read%v from unmapped %x\n", size, addr)
	return 0
}

// Write performs a guest store
func (b *Bus) Write(addr uint64, size Size, val uint32) {
	if r := b.find(addr); r != nil {
		r.write(addr, size, val)
		return
	}
	b.log.errorf("write%v %08x to unmapped %x\n", size, val, addr)
}

// Regions lists the map in address order
func (b *Bus) Regions() []RegionInfo {
	out := make([]RegionInfo, len(b.regions))
	for i, r := range b.regions {
		out[i] = RegionInfo{Name: r.name, Base: r.base, Size: r.size}
	}
	return out
}
