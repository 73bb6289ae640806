package cg14

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Monitor is a line based inspector for a running board. It pokes the
// bus exactly like a guest would, so everything it does shows up in the
// device log too.
type Monitor struct {
	dev *Device
	bus *Bus
	out io.Writer
}

// NewMonitor prints its results to out
func NewMonitor(d *Device, b *Bus, out io.Writer) *Monitor {
	return &Monitor{dev: d, bus: b, out: out}
}

// ErrUnknownCommand is returned by Exec for words it doesn't know
var ErrUnknownCommand = errors.New("unknown cmd")

type monCmd struct {
	usage string
	nArgs int
	fn    func(m *Monitor, args []string) error
}

var monCmdMap map[string]monCmd

var sizeNames = map[string]Size{"b": Byte, "w": Half, "l": Word}

func init() {
	monCmdMap = map[string]monCmd{
		"rb": {"rb ADDR", 1, func(m *Monitor, args []string) error { return m.read(args[0], Byte) }},
		"rw": {"rw ADDR", 1, func(m *Monitor, args []string) error { return m.read(args[0], Half) }},
		"rl": {"rl ADDR", 1, func(m *Monitor, args []string) error { return m.read(args[0], Word) }},
		"wb": {"wb ADDR VAL", 2, func(m *Monitor, args []string) error { return m.write(args[0], args[1], Byte) }},
		"ww": {"ww ADDR VAL", 2, func(m *Monitor, args []string) error { return m.write(args[0], args[1], Half) }},
		"wl": {"wl ADDR VAL", 2, func(m *Monitor, args []string) error { return m.write(args[0], args[1], Word) }},

		"x": {"x FIELD_PATH", 1, func(m *Monitor, args []string) error {
			v, err := getField(reflect.ValueOf(&m.dev.st).Elem(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(m.out, v)
			return nil
		}},
		"reg": {"reg OFFSET b|w|l", 2, func(m *Monitor, args []string) error {
			off, err := strconv.ParseUint(args[0], 16, 64)
			if err != nil {
				return fmt.Errorf("bad offset %q", args[0])
			}
			size, ok := sizeNames[args[1]]
			if !ok {
				return fmt.Errorf("bad size %q", args[1])
			}
			fmt.Fprintln(m.out, CtrlRegisterName(off, size))
			return nil
		}},
		"refresh": {"refresh", 0, func(m *Monitor, args []string) error {
			m.dev.Refresh()
			return nil
		}},
		"invalidate": {"invalidate", 0, func(m *Monitor, args []string) error {
			m.dev.Invalidate()
			return nil
		}},
		"geom": {"geom", 0, func(m *Monitor, args []string) error {
			tw, th := m.dev.st.Timing.geometry()
			fmt.Fprintf(m.out, "%dx%d %dbpp (timing says %dx%d)\n",
				m.dev.st.Width, m.dev.st.Height, m.dev.st.Ctrl.pixMode(), tw, th)
			return nil
		}},
		"map": {"map", 0, func(m *Monitor, args []string) error {
			for _, r := range m.bus.Regions() {
				fmt.Fprintln(m.out, r)
			}
			return nil
		}},
		"ppm": {"ppm FILE", 1, func(m *Monitor, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := m.dev.WritePPM(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}},
		"help": {"help", 0, func(m *Monitor, args []string) error {
			names := make([]string, 0, len(monCmdMap))
			for name := range monCmdMap {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintln(m.out, monCmdMap[name].usage)
			}
			return nil
		}},
	}
}

// Exec runs one command line. Blank lines do nothing.
func (m *Monitor) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := monCmdMap[fields[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	if len(fields)-1 != cmd.nArgs {
		return fmt.Errorf("usage: %s", cmd.usage)
	}
	return cmd.fn(m, fields[1:])
}

func (m *Monitor) read(addrStr string, size Size) error {
	addr, err := strconv.ParseUint(addrStr, 16, 64)
	if err != nil {
		return fmt.Errorf("bad address %q", addrStr)
	}
	fmt.Fprintf(m.out, "%09x: %0*x\n", addr, int(size)*2, m.bus.Read(addr, size))
	return nil
}

func (m *Monitor) write(addrStr, valStr string, size Size) error {
	addr, err := strconv.ParseUint(addrStr, 16, 64)
	if err != nil {
		return fmt.Errorf("bad address %q", addrStr)
	}
	val, err := strconv.ParseUint(valStr, 16, int(size)*8)
	if err != nil {
		return fmt.Errorf("bad value %q", valStr)
	}
	m.bus.Write(addr, size, uint32(val))
	return nil
}

// lookupValue walks struct fields by name and arrays or slices by index
func lookupValue(root reflect.Value, lookups []string) (reflect.Value, error) {
	v := root
	for _, part := range lookups {
		switch v.Kind() {
		case reflect.Struct:
			if _, ok := v.Type().FieldByName(part); !ok {
				return reflect.Value{}, fmt.Errorf("field %s not found", part)
			}
			v = v.FieldByName(part)
		case reflect.Array, reflect.Slice:
			i, err := strconv.ParseInt(part, 0, 64)
			if err != nil || i < 0 || int(i) >= v.Len() {
				return reflect.Value{}, fmt.Errorf("bad index %s", part)
			}
			v = v.Index(int(i))
		default:
			return reflect.Value{}, fmt.Errorf("%s: %v has no fields", part, v.Type())
		}
	}
	return v, nil
}

func getField(root reflect.Value, path string) (reflect.Value, error) {
	return lookupValue(root, strings.Split(path, "."))
}
