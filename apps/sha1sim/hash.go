//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"
	"github.com/markkurossi/sha1core/control"
	"github.com/markkurossi/sha1core/driver"
	"github.com/markkurossi/sha1core/env"
	"github.com/markkurossi/sha1core/sha1"
)

const windowSize = control.Window

type input struct {
	name   string
	data   []byte
	engine int
	digest sha1.Digest
	ticks  uint64
	err    error
}

// Result defines the JSON output of one hashed input.
type Result struct {
	Name   string `json:"name"`
	Digest string `json:"digest"`
	Bytes  int    `json:"bytes"`
	Blocks int    `json:"blocks"`
	Engine int    `json:"engine"`
	Ticks  uint64 `json:"ticks"`
}

// hash hashes the inputs with the drivers. The inputs are distributed
// round-robin to the engines which run in parallel.
func hash(ctx context.Context, drivers []*driver.Driver, inputs []*input,
	asJSON bool) error {

	var wg sync.WaitGroup
	for idx, d := range drivers {
		wg.Add(1)
		go func(engine int, d *driver.Driver) {
			defer wg.Done()
			for i := engine; i < len(inputs); i += len(drivers) {
				in := inputs[i]
				start := d.Ticks()
				in.engine = engine
				in.digest, in.err = d.Sum(ctx, in.data)
				in.ticks = d.Ticks() - start
				if in.err != nil {
					skipInputs(inputs, i+len(drivers), len(drivers),
						fmt.Errorf("engine %d failed: %w", engine, in.err))
					return
				}
			}
		}(idx, d)
	}
	wg.Wait()

	var results []Result
	for _, in := range inputs {
		if in.err != nil {
			return fmt.Errorf("%s: %w", in.name, in.err)
		}
		if asJSON {
			results = append(results, Result{
				Name:   in.name,
				Digest: in.digest.String(),
				Bytes:  len(in.data),
				Blocks: len(sha1.Pad(in.data)),
				Engine: in.engine,
				Ticks:  in.ticks,
			})
		} else {
			fmt.Printf("%s  %s\n", in.digest, in.name)
		}
	}
	if asJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		fmt.Println()
	}
	return nil
}

// skipInputs fails every stride'th input starting from first.
func skipInputs(inputs []*input, first, stride int, err error) {
	for i := first; i < len(inputs); i += stride {
		inputs[i].err = err
	}
}

// soak runs count generated messages on each engine.
func soak(ctx context.Context, drivers []*driver.Driver, count int,
	config *env.Config) error {

	var wg sync.WaitGroup
	errs := make([]error, len(drivers))
	for idx, d := range drivers {
		wg.Add(1)
		go func(idx int, d *driver.Driver) {
			defer wg.Done()
			n, err := d.Soak(ctx, count, config.GetRandom())
			if err != nil {
				errs[idx] = err
				return
			}
			fmt.Printf("engine %d: %d messages verified\n", idx, n)
		}(idx, d)
	}
	wg.Wait()
	for idx, err := range errs {
		if err != nil {
			return fmt.Errorf("engine %d: %w", idx, err)
		}
	}
	return nil
}
