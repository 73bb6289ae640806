package cg14

// Other things the board pulls onto the bus that nothing here emulates
const (
	sxBase = 0xf80000000 // SX pixel arithmetic unit
	sxSize = 0x2000

	badMemSize = 0x2000 // missing vsimms

	dbriBase = 0xee0001000 // audio
	dbriSize = 0x10000
)

var badMemBases = []uint64{0x90000000, 0x94000000, 0x98000000}

// stubDevice stands in for hardware that is mapped but not emulated.
// Reads are 0, writes vanish, and both leave a line in the log.
type stubDevice struct {
	log      *diagLog
	level    LogLevel
	readFmt  func(addr uint64, size Size) (string, []interface{})
	writeFmt func(addr uint64, size Size, val uint32) (string, []interface{})
}

func (s *stubDevice) read(addr uint64, size Size) uint32 {
	format, args := s.readFmt(addr, size)
	s.log.printf(s.level, format, args...)
	return 0
}

func (s *stubDevice) write(addr uint64, size Size, val uint32) {
	format, args := s.writeFmt(addr, size, val)
	s.log.printf(s.level, format, args...)
}

var sizeDigits = map[Size]int{Byte: 2, Half: 4, Word: 8}

func newSXStub(log *diagLog) *stubDevice {
	return &stubDevice{
		log:   log,
		level: LogInfo,
		readFmt: func(addr uint64, size Size) (string, []interface{}) {
			return "SX read%v reg %x\n", []interface{}{size, addr}
		},
		writeFmt: func(addr uint64, size Size, val uint32) (string, []interface{}) {
			return "SX write%v %0*x to reg %x\n", []interface{}{size, sizeDigits[size], val, addr}
		},
	}
}

func newBadMemStub(log *diagLog) *stubDevice {
	return &stubDevice{
		log:   log,
		level: LogError,
		readFmt: func(addr uint64, size Size) (string, []interface{}) {
			return "Bad read from %x\n", []interface{}{addr}
		},
		writeFmt: func(addr uint64, size Size, val uint32) (string, []interface{}) {
			return "Bad write of 0x%02x to %x\n", []interface{}{val, addr}
		},
	}
}
