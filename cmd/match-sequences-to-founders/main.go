package main

/*
match-sequences-to-founders reports, for every sequence of an alignment, the
maximal column runs over which it agrees exactly with one or more founder
sequences, as a tab-separated listing. A sequence perfectly representable by
recombining founders at run boundaries yields runs covering its whole
length.
*/

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/founder-sequences/dispatch"
	"github.com/grailbio/founder-sequences/matcher"
	"github.com/grailbio/founder-sequences/seqio"
)

var (
	inputPath      = flag.String("input", "", "Alignment path (required)")
	inputFormat    = flag.String("input-format", "FASTA", "Input format; 'FASTA' or 'list-file'")
	foundersPath   = flag.String("founders", "", "Founders path (one sequence per line, as founder-sequences writes them); required")
	outputPath     = flag.String("output", "-", "Match listing output path; '-' writes to stdout")
	singleThreaded = flag.Bool("single-threaded", false, "Match sequences one at a time instead of in parallel")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -input PATH -founders PATH [OPTIONS]\n", os.Args[0])
		flag.PrintDefaults()
	}
	shutdown := grail.Init()
	defer shutdown()

	if *inputPath == "" || *foundersPath == "" {
		log.Fatalf("match-sequences-to-founders: -input and -founders are required")
	}

	format, err := seqio.ParseFormat(*inputFormat)
	if err != nil {
		log.Fatalf("match-sequences-to-founders: %v", err)
	}
	matrix, err := seqio.Load(*inputPath, format)
	if err != nil {
		log.Fatalf("match-sequences-to-founders: %v", err)
	}
	founders, err := readLines(*foundersPath)
	if err != nil {
		log.Fatalf("match-sequences-to-founders: %v", err)
	}

	var sched dispatch.Scheduler = dispatch.Multi{}
	if *singleThreaded {
		sched = dispatch.Serial{}
	}

	matches, err := matcher.MatchAll(matrix.Rows, founders, sched)
	if err != nil {
		log.Fatalf("match-sequences-to-founders: %v", err)
	}

	if err := writeMatches(*outputPath, matches); err != nil {
		log.Fatalf("match-sequences-to-founders: %v", err)
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

func writeMatches(path string, matches [][]matcher.Match) error {
	out := os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := tsv.NewWriter(out)
	w.WriteString("SEQUENCE_INDEX\tLB\tRB\tFOUNDER_INDICES")
	if err := w.EndLine(); err != nil {
		return err
	}
	for i, runs := range matches {
		for _, m := range runs {
			fs := make([]string, len(m.FounderIndices))
			for k, fi := range m.FounderIndices {
				fs[k] = strconv.Itoa(fi)
			}
			w.WriteUint32(uint32(i))
			w.WriteUint32(uint32(m.LB))
			w.WriteUint32(uint32(m.RB))
			w.WriteString(strings.Join(fs, ","))
			if err := w.EndLine(); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
