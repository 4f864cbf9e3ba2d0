package main

import (
	"log"
	"os"
	"time"

	"github.com/docopt/docopt-go"

	"github.com/andreyvit/nbt"
)

const NbtedVersion = "0.1.0"

var Out *log.Logger
var Err *log.Logger

func init() {
	Out = log.New(os.Stdout, "", 0)
	Err = log.New(os.Stderr, "", 0)
}

func main() {
	usage := `NBT inspection tool.

Usage:
    nbted print <file>
    nbted chunks <file>
    nbted convert --compression=<kind> <in> <out>
    nbted -h | --help
    nbted --version

Options:
    --compression=<kind>  Output framing: gzip, zlib or none.
    -h --help             Show this screen.
    --version             Show version.`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], NbtedVersion)
	if err != nil {
		Err.Fatalf("nbted: %v", err)
	}

	switch {
	case command(opts, "print"):
		printDocument(arg(opts, "<file>"))
	case command(opts, "chunks"):
		listChunks(arg(opts, "<file>"))
	case command(opts, "convert"):
		convert(arg(opts, "<in>"), arg(opts, "<out>"), arg(opts, "--compression"))
	}
}

func printDocument(path string) {
	data := readFile(path)
	el, c, err := nbt.DecodeFile(data)
	if err != nil {
		Err.Fatalf("nbted: %s: %v", path, err)
	}
	Out.Printf("# %s (%v, %d rows expanded)", path, c, el.TrueHeight())
	Out.Print(el.String())
}

func listChunks(path string) {
	data := readFile(path)
	region, err := nbt.DecodeRegion(data)
	if err != nil {
		Err.Fatalf("nbted: %s: %v", path, err)
	}
	Out.Printf("# %s: %d chunks", path, region.Len())
	for i := 0; i < region.Len(); i++ {
		chunk := region.Child(i)
		modified := time.Unix(int64(chunk.LastModified()), 0).UTC().Format(time.DateTime)
		Out.Printf("%2d,%2d  %v  %s  %d rows", chunk.X(), chunk.Z(), chunk.Format(), modified, chunk.TrueHeight())
	}
}

func convert(inPath, outPath, kind string) {
	c, err := nbt.ParseCompression(kind)
	if err != nil {
		Err.Fatalf("nbted: %v", err)
	}
	el, _, err := nbt.DecodeFile(readFile(inPath))
	if err != nil {
		Err.Fatalf("nbted: %s: %v", inPath, err)
	}
	out, err := el.EncodeFile(c)
	if err != nil {
		Err.Fatalf("nbted: %v", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		Err.Fatalf("nbted: %v", err)
	}
	Out.Printf("%s: %d bytes (%v)", outPath, len(out), c)
}

func readFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		Err.Fatalf("nbted: %v", err)
	}
	return data
}

func command(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

func arg(opts docopt.Opts, name string) string {
	v, _ := opts.String(name)
	return v
}
