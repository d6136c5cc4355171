package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a platform compatibility mode such as 8.3.10.
// Нулевое значение означает «не определено».
type Version struct {
	Major, Minor, Patch uint16
}

// ParseVersion accepts "8.3.10", "8_3_10", "Version8_3_10" and "Версия8_3_10".
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	for _, prefix := range []string{"Version", "Версия"} {
		if len(raw) > len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
			raw = raw[len(prefix):]
			break
		}
	}
	raw = strings.ReplaceAll(raw, "_", ".")
	parts := strings.Split(raw, ".")
	if raw == "" || len(parts) > 3 {
		return Version{}, fmt.Errorf("bad compatibility version %q", s)
	}
	var nums [3]uint16
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Version{}, fmt.Errorf("bad compatibility version %q: %w", s, err)
		}
		nums[i] = uint16(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustVersion is ParseVersion for constants in rule descriptors.
func MustVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports an undefined version.
func (v Version) IsZero() bool { return v == Version{} }

// Compare returns -1, 0 or +1.
func (v Version) Compare(o Version) int {
	a := [3]uint16{v.Major, v.Minor, v.Patch}
	b := [3]uint16{o.Major, o.Minor, o.Patch}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	if v.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Version) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*v = Version{}
		return nil
	}
	p, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}

// InRange reports whether v lies in [min, max]; zero bounds are open and an
// undefined v is always in range.
func (v Version) InRange(min, max Version) bool {
	if v.IsZero() {
		return true
	}
	if !min.IsZero() && v.Compare(min) < 0 {
		return false
	}
	if !max.IsZero() && v.Compare(max) > 0 {
		return false
	}
	return true
}

// ValueError reports an unknown enumeration value in a settings or metadata file.
type ValueError struct {
	Field string
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Field, e.Value)
}
