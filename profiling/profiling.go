package profiling

import (
	"fmt"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux
	"strings"

	"github.com/pkg/profile"
)

const profileAddr = "127.0.0.1:7070"

// Stopper ends a profiling run and flushes what it collected
type Stopper interface {
	Stop()
}

// NopStopper is the Stopper for runs that write nothing
type NopStopper struct{}

// Stop implements Stopper
func (n NopStopper) Stop() {}

var modes = map[string]func(*profile.Profile){
	"cpu":   profile.CPUProfile,
	"mem":   profile.MemProfile,
	"block": profile.BlockProfile,
	"mutex": profile.MutexProfile,
	"trace": profile.TraceProfile,
}

// Kinds lists what Start accepts besides "" and "live"
func Kinds() []string {
	return []string{"cpu", "mem", "block", "mutex", "trace"}
}

// Start turns on the named profiler, writing into the current dir.
// "" profiles nothing and "live" serves net/http/pprof instead.
func Start(kind string) (Stopper, error) {
	switch kind {
	case "":
		return NopStopper{}, nil
	case "live":
		banner("LIVE")
		fmt.Println("running at http://" + profileAddr + "/debug/pprof/")
		go func() {
			fmt.Println(http.ListenAndServe(profileAddr, nil))
		}()
		return NopStopper{}, nil
	}
	mode, ok := modes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown profile kind %q", kind)
	}
	banner(strings.ToUpper(kind))
	return profile.Start(
		mode,
		profile.ProfilePath("."),
	), nil
}

func banner(kind string) {
	msg := strings.Repeat(kind+" PROFILING! ", 3)
	fmt.Println()
	fmt.Println(msg)
	fmt.Println()
}
