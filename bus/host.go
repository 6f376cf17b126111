//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package bus

import (
	"fmt"

	"github.com/markkurossi/sha1core/control"
	"github.com/markkurossi/sha1core/env"
)

// NewHost creates a bus with count SHA-1 engines. The engine register
// windows are placed back to back starting from the configured base
// address.
func NewHost(count int, config *env.Config) (*Bus, []*control.ControlPlane, error) {
	if count <= 0 {
		return nil, nil, fmt.Errorf("bus: invalid engine count %d", count)
	}
	b := New()
	var engines []*control.ControlPlane

	base := config.GetBase()
	for i := 0; i < count; i++ {
		cp := control.New(i, base+uint32(i)*control.Window, config)
		if err := b.Attach(cp); err != nil {
			return nil, nil, err
		}
		engines = append(engines, cp)
	}
	return b, engines, nil
}
