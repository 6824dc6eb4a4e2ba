package version

import (
	"errors"
	"fmt"
	"strings"
)

// Version identifies an OpenGL or OpenGL ES API revision. Desktop
// versions are encoded as major*100 + minor*10, ES versions the same
// with the es bit set so the two families never compare against each
// other by accident.
type Version int

const esBit = 0x10000

const (
	None Version = 0

	GL210 Version = 210
	GL300 Version = 300
	GL310 Version = 310
	GL320 Version = 320
	GL330 Version = 330
	GL400 Version = 400
	GL410 Version = 410
	GL420 Version = 420
	GL430 Version = 430
	GL440 Version = 440
	GL450 Version = 450
	GL460 Version = 460

	GLES200 Version = esBit | 200
	GLES300 Version = esBit | 300
	GLES310 Version = esBit | 310
	GLES320 Version = esBit | 320
)

// ErrUnsupported is returned by FirstSupported when no candidate
// matches the detected version.
var ErrUnsupported = errors.New("no supported version among candidates")

// IsES reports whether v belongs to the OpenGL ES family.
func (v Version) IsES() bool {
	return v&esBit != 0
}

// Major returns the major revision number, e.g. 4 for GL410.
func (v Version) Major() int {
	return int(v&^esBit) / 100
}

// Minor returns the minor revision number, e.g. 1 for GL410.
func (v Version) Minor() int {
	return int(v&^esBit) % 100 / 10
}

func (v Version) String() string {
	if v == None {
		return "none"
	}
	if v.IsES() {
		return fmt.Sprintf("OpenGL ES %d.%d", v.Major(), v.Minor())
	}
	return fmt.Sprintf("OpenGL %d.%d", v.Major(), v.Minor())
}

// IsSupported reports whether a context with the given detected
// version supports the queried one. Both must be from the same API
// family; cross-family queries (ES version against a desktop context)
// are resolved one level up, via compatibility extensions.
func IsSupported(detected, queried Version) bool {
	return queried <= detected
}

// FirstSupported returns the first candidate, in the caller's order,
// that IsSupported against the detected version. The order is the
// caller's preference list and is honored as given: a later candidate
// is never picked over an earlier supported one, even if higher.
func FirstSupported(detected Version, candidates []Version) (Version, error) {
	for _, c := range candidates {
		if IsSupported(detected, c) {
			return c, nil
		}
	}
	return None, ErrUnsupported
}

// Parse extracts a Version from a driver-supplied GL_VERSION string.
// Desktop drivers report "<major>.<minor>[.release] <vendor junk>",
// ES drivers prefix it with "OpenGL ES " or "OpenGL ES-CM ". Anything
// without a leading major.minor pair is an error.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)

	es := false
	for _, prefix := range []string{"OpenGL ES-CM ", "OpenGL ES "} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			es = true
			s = rest
			break
		}
	}

	var major, minor int
	if n, err := fmt.Sscanf(s, "%d.%d", &major, &minor); err != nil || n != 2 {
		return None, fmt.Errorf("malformed version string %q", s)
	}
	if major < 1 || minor < 0 || minor > 9 {
		return None, fmt.Errorf("implausible version %d.%d", major, minor)
	}

	v := Version(major*100 + minor*10)
	if es {
		v |= esBit
	}
	return v, nil
}
