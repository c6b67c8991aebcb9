// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// waveletcp copies a collection of wavelets between local files and
// cloud storage, checking that every wavelet is valid on the way
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"rescribe.xyz/haar"
)

const usage = `Usage: waveletcp [-v] [-c conn] [-f format] from to

Copies a collection of wavelets. Either location may be a local file
or a location of the form s3://bucket/key; the bucket to copy to is
created if it does not already exist. The whole collection is
read and checked before anything is written, so a malformed or empty
wavelet means nothing is copied.
`

// null writer to enable non-verbose logging to be discarded
type NullWriter bool

func (w NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

type Storer interface {
	haar.Downloader
	haar.Uploader
	Init() error
	CreateBucket(name string) error
}

func main() {
	verbose := flag.Bool("v", false, "verbose")
	conntype := flag.String("c", "aws", "connection type for remote locations ('aws' or 'local')")
	format := flag.String("f", "simple", "wavelet format ('simple', 'mean' or 'dual')")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	var n NullWriter
	verboselog := log.New(n, "", log.LstdFlags)
	if *verbose {
		verboselog = log.New(os.Stdout, "", log.LstdFlags)
	}

	f, err := haar.ParseFormat(*format)
	if err != nil {
		log.Fatalln(err)
	}

	var conn Storer
	switch *conntype {
	case "aws":
		conn = &haar.AwsConn{Logger: verboselog}
	case "local":
		conn = &haar.LocalConn{Logger: verboselog}
	default:
		log.Fatalln("Unknown connection type:", *conntype)
	}

	from, to := flag.Arg(0), flag.Arg(1)
	fbucket, fkey, fremote := haar.SplitRemote(from)
	tbucket, tkey, tremote := haar.SplitRemote(to)
	if fremote || tremote {
		verboselog.Println("Setting up connection")
		err = conn.Init()
		if err != nil {
			log.Fatalln("Error setting up connection:", err)
		}
	}

	var wavelets []*haar.Wavelet
	if fremote {
		wavelets, err = haar.LoadRemote(conn, fbucket, fkey, f)
	} else {
		wavelets, err = haar.LoadFile(from, f)
	}
	if err != nil {
		log.Fatalln("Error loading wavelets from", from, err)
	}
	verboselog.Println("Loaded", len(wavelets), "wavelets")

	if tremote {
		err = conn.CreateBucket(tbucket)
		if err != nil {
			log.Fatalln("Error creating bucket", tbucket, err)
		}
		err = haar.StoreRemote(conn, tbucket, tkey, wavelets)
	} else {
		err = haar.StoreFile(to, wavelets)
	}
	if err != nil {
		log.Fatalln("Error storing wavelets to", to, err)
	}
	verboselog.Println("Copied", len(wavelets), "wavelets to", to)
}
