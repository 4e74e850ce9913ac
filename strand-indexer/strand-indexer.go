package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MG-RAST/Strand/conf"
	"github.com/MG-RAST/Strand/corpus"
	"github.com/MG-RAST/Strand/index"
	"github.com/MG-RAST/Strand/indexer"
	"github.com/MG-RAST/Strand/logger"
)

const logo = `
 +--------------+
 |    Strand    |
 +--------------+
`

func indexFile(path string, primary bool, corp *corpus.CorpusDescriptor) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}

	idx := index.New(conf.CHUNK_SIZE, primary)
	opts := indexer.Opts{
		SkipSequenceIds:    conf.SKIP_SEQUENCE_IDS,
		NumericSequenceIds: conf.NUMERIC_SEQUENCE_IDS,
		StreamPrefix:       conf.STREAM_PREFIX[0],
		BufferSize:         conf.BUFFER_SIZE,
	}

	start := time.Now()
	if err = indexer.New(f, fi.Size(), idx, opts).Build(corp); err != nil {
		return err
	}

	out := filepath.Join(conf.OUTPUT_PATH, filepath.Base(path)+".idx")
	if err = idx.Save(out); err != nil {
		return err
	}

	logger.Perf(fmt.Sprintf("indexed %s: %d sequences, %d samples, %d chunks in %s", path, idx.NumberOfSequences(), idx.NumberOfSamples(), len(idx.Chunks()), time.Since(start)))
	logger.Info("scan", path+" -> "+out)
	return nil
}

func main() {
	conf.Initialize()
	logger.Initialize()

	if conf.INPUT == "" {
		fmt.Fprintln(os.Stderr, "ERROR: no input files given")
		os.Exit(1)
	}

	fmt.Printf("%s\n######### Conf #########\ninput:\t%s\noutput:\t%s\nskip-ids:\t%t\nnumeric-ids:\t%t\nprefix:\t%s\nchunk-size:\t%d\nbuffer-size:\t%d\n\n",
		logo,
		conf.INPUT,
		conf.OUTPUT_PATH,
		conf.SKIP_SEQUENCE_IDS,
		conf.NUMERIC_SEQUENCE_IDS,
		conf.STREAM_PREFIX,
		conf.CHUNK_SIZE,
		conf.BUFFER_SIZE,
	)

	corp := corpus.NewCorpusDescriptor()
	for i, path := range strings.Split(conf.INPUT, ",") {
		if err := indexFile(path, i == 0, corp); err != nil {
			logger.Error(path + ": " + err.Error())
			fmt.Fprintf(os.Stderr, "ERROR: %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	if conf.REGISTRY_PATH != "" {
		if err := corp.GetStringRegistry().Save(conf.REGISTRY_PATH); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: saving registry: %v\n", err)
			os.Exit(1)
		}
	}
}
