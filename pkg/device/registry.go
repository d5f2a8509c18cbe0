package device

import (
	"fmt"
	"strings"
)

// Registry is the immutable table of known devices. It is safe for
// concurrent reads.
type Registry struct {
	devices []Device
	byID    map[string]int
	byCode  map[byte]codeRef
}

type codeRef struct {
	index int
	on    bool
}

// NewRegistry validates the table and builds a registry. Ids must be unique,
// phrases non-empty, and every (device, state) pair must map to its own byte.
func NewRegistry(devices ...Device) (*Registry, error) {
	r := &Registry{
		devices: make([]Device, 0, len(devices)),
		byID:    make(map[string]int, len(devices)),
		byCode:  make(map[byte]codeRef, 2*len(devices)),
	}

	for i, d := range devices {
		d.ID = strings.ToLower(strings.TrimSpace(d.ID))
		d.OnPhrase = strings.ToLower(strings.TrimSpace(d.OnPhrase))
		d.OffPhrase = strings.ToLower(strings.TrimSpace(d.OffPhrase))

		if d.ID == "" || d.OnPhrase == "" || d.OffPhrase == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrInvalidDevice, i)
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		if _, ok := r.byID[d.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDevice, d.ID)
		}
		if d.OnCode == d.OffCode {
			return nil, fmt.Errorf("%w: %q uses %q for both states", ErrDuplicateCode, d.ID, d.OnCode)
		}
		for _, ref := range []codeRef{{i, true}, {i, false}} {
			code := d.Code(ref.on)
			if prev, ok := r.byCode[code]; ok {
				return nil, fmt.Errorf("%w: %q already used by %q", ErrDuplicateCode, code, r.devices[prev.index].ID)
			}
			r.byCode[code] = ref
		}

		r.byID[d.ID] = i
		r.devices = append(r.devices, d)
	}

	return r, nil
}

// MustDefaultRegistry returns the reference four-device registry.
func MustDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultDevices()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the device with the given id.
func (r *Registry) Lookup(id string) (Device, error) {
	i, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return Device{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return r.devices[i], nil
}

// All returns the devices in definition order.
func (r *Registry) All() []Device {
	out := make([]Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Len returns the number of devices.
func (r *Registry) Len() int {
	return len(r.devices)
}

// Index returns the definition position of a device, or -1.
func (r *Registry) Index(id string) int {
	if i, ok := r.byID[strings.ToLower(id)]; ok {
		return i
	}
	return -1
}

// Decode maps a wire byte back to the device and state it encodes.
func (r *Registry) Decode(code byte) (Device, bool, error) {
	ref, ok := r.byCode[code]
	if !ok {
		return Device{}, false, fmt.Errorf("%w: no device uses code %q", ErrNotFound, code)
	}
	return r.devices[ref.index], ref.on, nil
}
