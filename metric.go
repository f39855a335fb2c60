package fireplace

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/maps"
)

// MetricPrefix is an SI prefix stored as its power of ten.
type MetricPrefix int

const (
	Quetta   MetricPrefix = 30
	Ronna    MetricPrefix = 27
	Yotta    MetricPrefix = 24
	Zetta    MetricPrefix = 21
	Exa      MetricPrefix = 18
	Peta     MetricPrefix = 15
	Tera     MetricPrefix = 12
	Giga     MetricPrefix = 9
	Mega     MetricPrefix = 6
	Kilo     MetricPrefix = 3
	Hecto    MetricPrefix = 2
	Deca     MetricPrefix = 1
	NoPrefix MetricPrefix = 0
	Deci     MetricPrefix = -1
	Centi    MetricPrefix = -2
	Milli    MetricPrefix = -3
	Micro    MetricPrefix = -6
	Nano     MetricPrefix = -9
	Pico     MetricPrefix = -12
	Femto    MetricPrefix = -15
	Atto     MetricPrefix = -18
	Zepto    MetricPrefix = -21
	Yocto    MetricPrefix = -24
	Ronto    MetricPrefix = -27
	Quecto   MetricPrefix = -30
)

type prefixInfo struct {
	name, symbol string
}

var prefixes = map[MetricPrefix]prefixInfo{
	Quetta:   {"quetta", "Q"},
	Ronna:    {"ronna", "R"},
	Yotta:    {"yotta", "Y"},
	Zetta:    {"zetta", "Z"},
	Exa:      {"exa", "E"},
	Peta:     {"peta", "P"},
	Tera:     {"tera", "T"},
	Giga:     {"giga", "G"},
	Mega:     {"mega", "M"},
	Kilo:     {"kilo", "k"},
	Hecto:    {"hecto", "h"},
	Deca:     {"deca", "da"},
	NoPrefix: {"", ""},
	Deci:     {"deci", "d"},
	Centi:    {"centi", "c"},
	Milli:    {"milli", "m"},
	Micro:    {"micro", "μ"},
	Nano:     {"nano", "n"},
	Pico:     {"pico", "p"},
	Femto:    {"femto", "f"},
	Atto:     {"atto", "a"},
	Zepto:    {"zepto", "z"},
	Yocto:    {"yocto", "y"},
	Ronto:    {"ronto", "r"},
	Quecto:   {"quecto", "q"},
}

var (
	prefixByName   = make(map[string]MetricPrefix)
	prefixBySymbol = make(map[string]MetricPrefix)
)

func init() {
	for p, info := range prefixes {
		prefixByName[info.name] = p
		prefixBySymbol[info.symbol] = p
	}
	// Greek mu and the micro sign look the same.
	prefixBySymbol["µ"] = Micro
	prefixBySymbol["u"] = Micro
}

// MetricPrefixes returns every known prefix from smallest to largest.
func MetricPrefixes() []MetricPrefix {
	return slices.Sorted(maps.Keys(prefixes))
}

// String returns the prefix name, e.g. "nano". NoPrefix is "".
func (p MetricPrefix) String() string {
	if info, ok := prefixes[p]; ok {
		return info.name
	}
	return "MetricPrefix(" + strconv.Itoa(int(p)) + ")"
}

// Symbol returns the prefix abbreviation, e.g. "n".
func (p MetricPrefix) Symbol() string {
	return prefixes[p].symbol
}

// Duration converts v units of p-seconds to a time.Duration, truncating
// anything below a nanosecond. Values beyond the range of time.Duration
// saturate at its minimum or maximum.
func (p MetricPrefix) Duration(v int64) time.Duration {
	exp := int(p) - int(Nano)
	d := v
	for ; exp > 0 && d != 0; exp-- {
		switch {
		case d > math.MaxInt64/10:
			return time.Duration(math.MaxInt64)
		case d < math.MinInt64/10:
			return time.Duration(math.MinInt64)
		}
		d *= 10
	}
	for ; exp < 0 && d != 0; exp++ {
		d /= 10
	}
	return time.Duration(d)
}

// ParseMetricPrefix parses the prefix out of a unit written either in full
// ("nanoseconds", "nanosecond", "seconds") with the given suffix, or
// abbreviated ("ns", "s") with the given abbreviation.
func ParseMetricPrefix(value, suffix, abbrev string) (MetricPrefix, error) {
	if strings.HasSuffix(value, suffix) || strings.HasSuffix(value, suffix+"s") {
		name := strings.TrimSuffix(strings.TrimSuffix(value, "s"), suffix)
		if p, ok := prefixByName[name]; ok {
			return p, nil
		}
		return 0, fmt.Errorf("unknown metric prefix %q in %q", name, value)
	}
	sym, ok := strings.CutSuffix(value, abbrev)
	if !ok {
		return 0, fmt.Errorf("unit %q is neither %q nor %q", value, suffix, abbrev)
	}
	if p, ok := prefixBySymbol[sym]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("unknown metric prefix %q in %q", sym, value)
}

// FormatRunningTime renders d as the Fireplace running time line, without
// the trailing newline.
func FormatRunningTime(d time.Duration) string {
	return fmt.Sprintf("RT %d %ss", d.Nanoseconds(), Nano.Symbol())
}

// ParseRunningTime parses a line of the form "RT <int> <unit>", where unit is
// a metric-prefixed second, e.g. "RT 1234 ns" or "RT 5 milliseconds".
func ParseRunningTime(line string) (int64, MetricPrefix, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "RT" {
		return 0, 0, fmt.Errorf("could not parse running time for %q", line)
	}
	v, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("could not parse running time for %q: %w", line, err)
	}
	unit, err := ParseMetricPrefix(fields[2], "second", "s")
	if err != nil {
		return 0, 0, fmt.Errorf("could not parse running time for %q: %w", line, err)
	}
	return v, unit, nil
}
