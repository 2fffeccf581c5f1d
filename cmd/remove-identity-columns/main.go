package main

/*
remove-identity-columns strips the columns on which every input sequence
agrees, emitting the reduced alignment plus a column map recording where the
stripped columns belong. Running founder-sequences on the reduced alignment
and insert-identity-columns on its founders reproduces full-length founders
while keeping the segmentation passes off the uninformative columns.
*/

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/founder-sequences/identity"
	"github.com/grailbio/founder-sequences/seqio"
)

var (
	inputPath     = flag.String("input", "", "Input alignment path (required)")
	inputFormat   = flag.String("input-format", "FASTA", "Input format; 'FASTA' or 'list-file'")
	outputPath    = flag.String("output", "-", "Reduced alignment output path (FASTA); '-' writes to stdout")
	columnMapPath = flag.String("output-column-map", "", "Column map output path (required)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -input PATH -output-column-map PATH [OPTIONS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	if *inputPath == "" {
		log.Fatalf("remove-identity-columns: -input is required")
	}
	if *columnMapPath == "" {
		log.Fatalf("remove-identity-columns: -output-column-map is required")
	}

	format, err := seqio.ParseFormat(*inputFormat)
	if err != nil {
		log.Fatalf("remove-identity-columns: %v", err)
	}
	matrix, err := seqio.Load(*inputPath, format)
	if err != nil {
		log.Fatalf("remove-identity-columns: %v", err)
	}

	cm := identity.Detect(matrix)
	reduced, err := identity.Remove(matrix, cm)
	if err != nil {
		log.Fatalf("remove-identity-columns: %v", err)
	}

	removed := matrix.Length() - reduced.Length()
	log.Printf("removed %d identity columns of %d", removed, matrix.Length())

	if err := writeFASTA(*outputPath, reduced); err != nil {
		log.Fatalf("remove-identity-columns: %v", err)
	}

	f, err := os.Create(*columnMapPath)
	if err != nil {
		log.Fatalf("remove-identity-columns: %v", err)
	}
	if err := identity.WriteColumnMap(f, cm); err != nil {
		f.Close()
		log.Fatalf("remove-identity-columns: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("remove-identity-columns: %v", err)
	}
}

func writeFASTA(path string, m seqio.Matrix) error {
	out := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	for i, row := range m.Rows {
		name := fmt.Sprintf("seq%d", i)
		if i < len(m.Names) {
			name = m.Names[i]
		}
		if _, err := fmt.Fprintf(w, ">%s\n%s\n", name, row); err != nil {
			return err
		}
	}
	return w.Flush()
}
