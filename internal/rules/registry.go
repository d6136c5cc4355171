package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

var codePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// Registry is the rule catalog. Порядок регистрации задаёт порядок обхода.
type Registry struct {
	mu     sync.RWMutex
	descs  []*Descriptor
	byCode map[string]int // lower-case code -> index into descs
}

func NewRegistry() *Registry {
	return &Registry{byCode: make(map[string]int)}
}

// Register adds a descriptor; codes are unique case-insensitively.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return errors.New("nil descriptor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(d.Code)
	if _, dup := r.byCode[key]; dup {
		return fmt.Errorf("rule %q registered twice", d.Code)
	}
	r.byCode[key] = len(r.descs)
	r.descs = append(r.descs, d)
	return nil
}

// MustRegister panics on a registration error; for static catalogs.
func (r *Registry) MustRegister(ds ...*Descriptor) {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// All returns every descriptor in registration order.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Descriptor(nil), r.descs...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descs)
}

// Lookup finds a descriptor by code, ignoring case.
func (r *Registry) Lookup(code string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byCode[strings.ToLower(code)]
	if !ok {
		return nil, false
	}
	return r.descs[idx], true
}

// Instantiate returns a fresh instance of the rule with default parameters.
func (r *Registry) Instantiate(code string) (*Active, error) {
	d, ok := r.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("unknown rule %q", code)
	}
	return &Active{
		Descriptor: d,
		Rule:       d.New(),
		Config:     DefaultConfig(d.Params),
		Type:       d.Type,
		Severity:   d.Severity,
	}, nil
}

// Validate checks catalog consistency and returns every problem found.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.descs) == 0 {
		return errors.New("rule catalog is empty")
	}
	var errs []error
	for _, d := range r.descs {
		errs = append(errs, validateDescriptor(d)...)
	}
	return errors.Join(errs...)
}

func validateDescriptor(d *Descriptor) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: "+format, append([]any{d.Code}, args...)...))
	}
	if !codePattern.MatchString(d.Code) {
		fail("code must be CamelCase")
	}
	if strings.TrimSpace(d.Name) == "" {
		fail("empty name")
	}
	if strings.TrimSpace(d.Message) == "" {
		fail("empty message")
	}
	if n := len(d.Tags); n < 1 || n > 3 {
		fail("expected 1..3 tags, got %d", n)
	}
	if d.MinutesToFix < 0 {
		fail("negative minutes to fix")
	}
	if d.New == nil {
		fail("no factory")
	}
	if !d.MinCompat.IsZero() && !d.MaxCompat.IsZero() && d.MinCompat.Compare(d.MaxCompat) > 0 {
		fail("compatibility range %s..%s is empty", d.MinCompat, d.MaxCompat)
	}
	seen := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		key := strings.ToLower(p.Name)
		if seen[key] {
			fail("parameter %q declared twice", p.Name)
		}
		seen[key] = true
		if strings.TrimSpace(p.Description) == "" {
			fail("parameter %q has no description", p.Name)
		}
		if _, ok := coerce(p.Type, p.Default); !ok {
			fail("parameter %q default %v is not %s", p.Name, p.Default, p.Type)
		}
	}
	return errs
}
