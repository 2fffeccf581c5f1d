package main

/*
founder-sequences computes a small set of founder sequences representing a
large multiple sequence alignment of equal-length strings: it partitions the
columns into contiguous segments of at least -segment-length-bound columns,
minimizing the maximum number of distinct substrings in any segment, then
concatenates one representative substring per segment and row to synthesize
K founders, where K is that maximum.
*/

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/founder-sequences/ferrors"
	"github.com/grailbio/founder-sequences/join"
	"github.com/grailbio/founder-sequences/output"
	"github.com/grailbio/founder-sequences/pipeline"
	"github.com/grailbio/founder-sequences/segmentation"
	"github.com/grailbio/founder-sequences/seqio"
)

var (
	inputPath           = flag.String("input", "", "Input path (required); a FASTA file or a list file naming one sequence file per line, per -input-format")
	inputFormat         = flag.String("input-format", "FASTA", "Input format; 'FASTA' or 'list-file'")
	segmentLengthBound  = flag.Int("segment-length-bound", 10, "Minimum number of columns per segment (L); must be > 0")
	segmentJoining      = flag.String("segment-joining", "pbwt-order", "Segment joining method; 'greedy', 'bipartite-matching', 'random', or 'pbwt-order'")
	bipartiteSetScoring = flag.String("bipartite-set-scoring", "", "Bipartite matching edge scoring; 'symmetric-difference' (default) or 'intersection'; only valid with -segment-joining=bipartite-matching")
	pbwtSampleRate      = flag.Int("pbwt-sample-rate", 1, "Multiplier applied to the sqrt(n) PBWT sampling cadence; 0 disables sampling")
	randomSeed          = flag.Uint("random-seed", 0, "Seed for -segment-joining=random; must fit in 32 bits")
	singleThreaded      = flag.Bool("single-threaded", false, "Run every stage inline on one thread")
	outputFounders      = flag.String("output-founders", "-", "Founder output path; '-' writes to stdout")
	outputSegments      = flag.String("output-segments", "", "Optional segment listing output path; '-' writes to stdout")
	inputSegmentation   = flag.String("input-segmentation", "", "Optional serialized segmentation to replay instead of re-running the DP")
	outputSegmentation  = flag.String("output-segmentation", "", "Optional path to serialize the computed segmentation to")
	printInvocation     = flag.Bool("print-invocation", false, "Echo the full command line to stderr before running")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -input PATH -segment-length-bound INT [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *printInvocation {
		fmt.Fprintln(os.Stderr, strings.Join(os.Args, " "))
	}

	cfg, err := buildConfig()
	if err != nil {
		log.Fatalf("founder-sequences: %v", err)
	}
	if *inputPath == "" {
		log.Fatalf("founder-sequences: -input is required")
	}

	format, err := seqio.ParseFormat(*inputFormat)
	if err != nil {
		log.Fatalf("founder-sequences: %v", err)
	}
	input, err := seqio.Load(*inputPath, format)
	if err != nil {
		log.Fatalf("founder-sequences: %v", err)
	}
	log.Printf("loaded %d sequences of length %d from %s", len(input.Rows), input.Length(), *inputPath)

	progress := newProgressReporter(os.Stderr)

	var result *pipeline.Result
	if *inputSegmentation != "" {
		container, err := readContainer(*inputSegmentation)
		if err != nil {
			log.Fatalf("founder-sequences: %v", err)
		}
		if container.InputPath != *inputPath {
			log.Printf("note: segmentation was computed from %s, input is %s", container.InputPath, *inputPath)
		}
		result, err = pipeline.RunFromSegmentation(input, container, cfg, progress.report)
		if err != nil {
			log.Fatalf("founder-sequences: %v", err)
		}
	} else {
		result, err = pipeline.Run(input, cfg, progress.report)
		if err != nil {
			if ferrors.Is(err, ferrors.NotReducible) {
				log.Fatalf("founder-sequences: %v (try a smaller -segment-length-bound)", err)
			}
			log.Fatalf("founder-sequences: %v", err)
		}
	}
	progress.finish()

	founderCount := result.Permutation.NumFounders()
	log.Printf("computed %d founders over %d segments (alphabet size %d, fingerprint %016x)",
		founderCount, len(result.Segments), result.Alphabet.Size(), result.Alphabet.Fingerprint())

	if err := writeFounders(*outputFounders, result); err != nil {
		log.Fatalf("founder-sequences: %v", err)
	}
	if *outputSegments != "" {
		if err := writeSegments(*outputSegments, result, cfg.Join.Method); err != nil {
			log.Fatalf("founder-sequences: %v", err)
		}
	}
	if *outputSegmentation != "" {
		if err := writeContainer(*outputSegmentation, result, uint32(founderCount)); err != nil {
			log.Fatalf("founder-sequences: %v", err)
		}
	}
}

func buildConfig() (pipeline.Config, error) {
	if *segmentLengthBound <= 0 {
		return pipeline.Config{}, ferrors.Newf(ferrors.ConfigInvalid, "-segment-length-bound must be > 0, got %d", *segmentLengthBound)
	}
	if *pbwtSampleRate < 0 {
		return pipeline.Config{}, ferrors.Newf(ferrors.ConfigInvalid, "-pbwt-sample-rate must be >= 0, got %d", *pbwtSampleRate)
	}
	if *randomSeed > math.MaxUint32 {
		return pipeline.Config{}, ferrors.Newf(ferrors.ConfigInvalid, "-random-seed %d does not fit in 32 bits", *randomSeed)
	}

	method, err := join.ParseMethod(*segmentJoining)
	if err != nil {
		return pipeline.Config{}, err
	}
	scoring := join.SymmetricDifference
	if *bipartiteSetScoring != "" {
		if method != join.MethodBipartite {
			return pipeline.Config{}, ferrors.New(ferrors.ConfigInvalid, "-bipartite-set-scoring is only valid with -segment-joining=bipartite-matching")
		}
		scoring, err = join.ParseSetScoring(*bipartiteSetScoring)
		if err != nil {
			return pipeline.Config{}, err
		}
	}

	return pipeline.Config{
		MinSegmentLength: *segmentLengthBound,
		PBWTSampleRate:   *pbwtSampleRate,
		Join: join.Config{
			Method:     method,
			SetScoring: scoring,
			RandomSeed: uint32(*randomSeed),
		},
		SingleThreaded: *singleThreaded,
	}, nil
}

// openOutput opens path for writing, treating "-" as stdout. The returned
// close func is a no-op for stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeFounders(path string, result *pipeline.Result) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	if err := output.WriteFounders(w, result.Matrix, result.Alphabet, result.Segments, result.Permutation); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func writeSegments(path string, result *pipeline.Result, method join.Method) error {
	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	if err := output.WriteSegments(w, result.Matrix, result.Alphabet, result.Segments, method); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func readContainer(path string) (segmentation.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return segmentation.Container{}, err
	}
	defer f.Close()
	return segmentation.ReadContainer(f)
}

func writeContainer(path string, result *pipeline.Result, founderCount uint32) error {
	cells := make([]segmentation.Cell, len(result.Segments))
	for i, seg := range result.Segments {
		cells[i] = seg.Cell
	}
	c := segmentation.Container{
		InputPath:      *inputPath,
		Alphabet:       result.Alphabet.Symbols(),
		MaxSegmentSize: founderCount,
		Segments:       cells,
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := segmentation.WriteContainer(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
