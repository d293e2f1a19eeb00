package core

import (
	"fmt"
	"sync"
)

// IdentifierPool hands out small integer ids and remembers who owns them.
// Released slots are reused before the pool grows.
type IdentifierPool struct {
	mu     sync.Mutex
	owners []interface{}
	live   int
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	if capacity <= 0 {
		capacity = 100
	}
	return &IdentifierPool{
		owners: make([]interface{}, capacity),
	}
}

func (p *IdentifierPool) AquireNewID(owner interface{}) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	length := uint32(len(p.owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			p.live++
			return i
		}
	}

	// If here, no existing free slots. Push a new one.
	p.owners = append(p.owners, owner)
	p.live++
	return uint32(len(p.owners)) - 1
}

func (p *IdentifierPool) ReleaseID(id uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	length := uint32(len(p.owners))
	if id >= length {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, length)
	}
	if p.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d' is not in use. Nothing was done", id)
	}

	// Just zero out the entry, making it available for use.
	p.owners[id] = nil
	p.live--
	return nil
}

func (p *IdentifierPool) Owner(id uint32) interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id >= uint32(len(p.owners)) {
		return nil
	}
	return p.owners[id]
}

// Live returns how many ids are currently held.
func (p *IdentifierPool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}
