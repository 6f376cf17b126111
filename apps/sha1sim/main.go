//
// main.go
//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/markkurossi/sha1core/bus"
	"github.com/markkurossi/sha1core/driver"
	"github.com/markkurossi/sha1core/env"
	"github.com/markkurossi/sha1core/timing"
	"github.com/markkurossi/sha1core/wire"
)

func main() {
	fVerbose := flag.Bool("v", false, "Verbose output")
	fBase := flag.String("base", fmt.Sprintf("0x%08x", env.DefaultBase),
		"register window base `address`")
	fEngines := flag.Int("engines", 1, "number of engines")
	fString := flag.String("s", "", "hash `string`")
	fJSON := flag.Bool("json", false, "print results as JSON")
	fTiming := flag.Bool("timing", false, "print tick report")
	fListen := flag.String("listen", "", "serve the engines at `address`")
	fConnect := flag.String("connect", "", "use remote engines at `address`")
	fSoak := flag.Int("soak", 0, "verify `count` generated messages")
	fPanic := flag.Bool("panic", false, "terminate engines with panic")
	fMaxPolls := flag.Int("polls", env.DefaultMaxPolls, "status poll limit")
	flag.Parse()

	log.SetFlags(0)

	base, err := strconv.ParseUint(*fBase, 0, 32)
	if err != nil {
		log.Fatalf("invalid base address '%s': %s", *fBase, err)
	}
	config := &env.Config{
		Base:     uint32(base),
		Verbose:  *fVerbose,
		MaxPolls: *fMaxPolls,
	}

	if len(*fListen) > 0 {
		err = serve(*fListen, *fEngines, config)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	var port driver.Port
	var client *wire.Client
	if len(*fConnect) > 0 {
		conn, err := net.Dial("tcp", *fConnect)
		if err != nil {
			log.Fatal(err)
		}
		client = wire.NewClient(wire.NewConn(conn))
		defer client.Close()
		port = client
	} else {
		b, _, err := bus.NewHost(*fEngines, config)
		if err != nil {
			log.Fatal(err)
		}
		port = b
	}

	drivers, err := probe(port, *fEngines, *fTiming, config)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	switch {
	case *fPanic:
		for _, d := range drivers {
			if err := d.Panic(); err != nil {
				log.Fatal(err)
			}
		}

	case *fSoak > 0:
		err = soak(ctx, drivers, *fSoak, config)

	default:
		var inputs []*input
		if len(*fString) > 0 {
			inputs = append(inputs, &input{
				name: fmt.Sprintf("%q", *fString),
				data: []byte(*fString),
			})
		}
		for _, arg := range flag.Args() {
			data, err := os.ReadFile(arg)
			if err != nil {
				log.Fatal(err)
			}
			inputs = append(inputs, &input{
				name: arg,
				data: data,
			})
		}
		if len(inputs) == 0 {
			fmt.Printf("No input files\n")
			os.Exit(1)
		}
		err = hash(ctx, drivers, inputs, *fJSON)
	}
	if err != nil {
		log.Fatal(err)
	}

	if *fTiming {
		var xfer uint64
		if client != nil {
			xfer = client.Stats().Sum()
		}
		for _, d := range drivers {
			if d.Timing != nil {
				d.Timing.Print(os.Stdout, xfer)
			}
		}
	}
}

// probe creates and probes drivers for the engines at port. With
// withTiming, the drivers record tick samples for every mode.
func probe(port driver.Port, engines int, withTiming bool,
	config *env.Config) ([]*driver.Driver, error) {

	var drivers []*driver.Driver
	for i := 0; i < engines; i++ {
		d := driver.New(port, config.GetBase()+uint32(i)*windowSize, config)
		if err := d.Probe(); err != nil {
			return nil, fmt.Errorf("engine %d: %w", i, err)
		}
		if withTiming {
			d.Timing = timing.New()
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

func serve(addr string, engines int, config *env.Config) error {
	b, _, err := bus.NewHost(engines, config)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("serving %d engines at %s", engines, listener.Addr())
	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		if config.Verbose {
			log.Printf("%s: connected", conn.RemoteAddr())
		}
		go func(conn net.Conn) {
			c := wire.NewConn(conn)
			if err := wire.Serve(c, b); err != nil {
				log.Printf("%s: %s", conn.RemoteAddr(), err)
			}
			c.Close()
		}(conn)
	}
}
