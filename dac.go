package cg14

// ADV7152 sub registers, selected by A[9:8] inside the dac window
const (
	dacRegAddress = 0
	dacRegLUT     = 1
	dacRegControl = 2
	dacRegMode    = 3
)

// mode register bits
const (
	dacModeNotReset = 0x01
	dacMode10BitDAC = 0x02
	dacMode10BitBus = 0x04
)

// adv7152 is the ramdac. The guest only ever writes it; the lut writes
// are counted but the palette itself is never used for output.
type adv7152 struct {
	Mode    byte
	Address byte
	RGBSeq  int
}

func (dac *adv7152) write(log *diagLog, reg uint32, val byte) {
	switch reg {
	case dacRegAddress:
		dac.Address = val
		dac.RGBSeq = 0
	case dacRegLUT:
		dac.RGBSeq++
	case dacRegControl:
		log.debugf("ADV7152 Write control 0x%02x\n", val)
	case dacRegMode:
		log.infof("ADV7152 Write mode 0x%02x (%d bit DAC, %d bit bus)\n",
			val, dacWidth(val&dacMode10BitDAC != 0), dacWidth(val&dacMode10BitBus != 0))
		if val&dacModeNotReset == 0 {
			dac.RGBSeq = 0
		}
		dac.Mode = val
	}
}

func dacWidth(tenBit bool) int {
	if tenBit {
		return 10
	}
	return 8
}
