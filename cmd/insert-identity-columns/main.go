package main

/*
insert-identity-columns reverses remove-identity-columns: given founders
computed over a reduced alignment, the column map from the removal pass, and
a full-length reference sequence supplying the identity bytes, it emits
founders restored to the original alignment width.
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
	foundersPath  = flag.String("founders", "", "Founders path (one sequence per line, as founder-sequences writes them); required")
	columnMapPath = flag.String("column-map", "", "Column map path from remove-identity-columns; required")
	referencePath = flag.String("reference", "", "Full-length reference FASTA supplying identity column bytes; required")
	outputPath    = flag.String("output", "-", "Restored founders output path; '-' writes to stdout")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -founders PATH -column-map PATH -reference PATH [OPTIONS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	for name, v := range map[string]string{"-founders": *foundersPath, "-column-map": *columnMapPath, "-reference": *referencePath} {
		if v == "" {
			log.Fatalf("insert-identity-columns: %s is required", name)
		}
	}

	founders, err := readLines(*foundersPath)
	if err != nil {
		log.Fatalf("insert-identity-columns: %v", err)
	}

	ref, err := seqio.Load(*referencePath, seqio.FormatFASTA)
	if err != nil {
		log.Fatalf("insert-identity-columns: %v", err)
	}
	if len(ref.Rows) != 1 {
		log.Fatalf("insert-identity-columns: reference %s must contain exactly one sequence, found %d", *referencePath, len(ref.Rows))
	}

	cmFile, err := os.Open(*columnMapPath)
	if err != nil {
		log.Fatalf("insert-identity-columns: %v", err)
	}
	cm, err := identity.ReadColumnMap(cmFile, ref.Rows[0])
	cmFile.Close()
	if err != nil {
		log.Fatalf("insert-identity-columns: %v", err)
	}

	restored, err := identity.Insert(seqio.Matrix{Rows: founders}, cm)
	if err != nil {
		log.Fatalf("insert-identity-columns: %v", err)
	}
	log.Printf("restored %d founders to length %d", len(restored.Rows), restored.Length())

	if err := writeLines(*outputPath, restored.Rows); err != nil {
		log.Fatalf("insert-identity-columns: %v", err)
	}
}

func readLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		out = append(out, []byte(line))
	}
	return out, scanner.Err()
}

func writeLines(path string, rows [][]byte) error {
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
	for _, row := range rows {
		if _, err := w.Write(row); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
