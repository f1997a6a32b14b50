// Command train fits pinned word2vec embeddings from a text corpus.
//
// Command-line parsing is intentionally thin: it builds a w2vpin.Config
// and hands off to w2vpin.Trainer.Run, which owns all training logic.
package main

import (
	"github.com/golang/glog"
	"github.com/kho/easy"
	"github.com/kho/w2vpin"
)

func main() {
	cfg := w2vpin.DefaultConfig()

	var args struct {
		Train      string  `name:"train" usage:"training corpus"`
		Output     string  `name:"output" usage:"output vectors/classes file"`
		Size       int     `name:"size" usage:"embedding dimension"`
		Window     int     `name:"window" usage:"max context radius"`
		Sample     float64 `name:"sample" usage:"subsampling threshold"`
		HS         int     `name:"hs" usage:"enable hierarchical softmax (0/1)"`
		Negative   int     `name:"negative" usage:"negative samples per step"`
		Threads    int     `name:"threads" usage:"worker count"`
		Iter       int     `name:"iter" usage:"training epochs"`
		MinCount   int     `name:"min-count" usage:"vocabulary frequency floor"`
		Alpha      float64 `name:"alpha" usage:"starting learning rate (0 = objective default)"`
		Classes    int     `name:"classes" usage:"K-means output mode (0 disables)"`
		Binary     int     `name:"binary" usage:"binary vector output (0/1)"`
		CBOW       int     `name:"cbow" usage:"CBOW (1) vs Skip-gram (0)"`
		SaveVocab  string  `name:"save-vocab" usage:"dump vocabulary after counting"`
		ReadVocab  string  `name:"read-vocab" usage:"skip counting, read precomputed vocabulary"`
		Debug      int     `name:"debug" usage:"log verbosity"`
		Pin        int     `name:"pin" usage:"enable built-in pin set (0/1)"`
		PinRepeats int     `name:"pin-repeats" usage:"skip-gram repeat count for pinned examples"`
		PinCSV     string  `name:"pin-csv" usage:"load has_wheels/is_dangerous pins from CSV"`
	}
	args.Size = cfg.Size
	args.Window = cfg.Window
	args.Sample = cfg.Sample
	args.Negative = cfg.Negative
	args.Threads = cfg.Threads
	args.Iter = cfg.Iter
	args.MinCount = int(cfg.MinCount)
	args.CBOW = 1
	args.Debug = cfg.Debug
	args.PinRepeats = cfg.PinRepeats

	easy.ParseFlagsAndArgs(&args)

	cfg.Train = args.Train
	cfg.Output = args.Output
	cfg.Size = args.Size
	cfg.Window = args.Window
	cfg.Sample = args.Sample
	cfg.HS = args.HS != 0
	cfg.Negative = args.Negative
	cfg.Threads = args.Threads
	cfg.Iter = args.Iter
	cfg.MinCount = int64(args.MinCount)
	cfg.Alpha = args.Alpha
	cfg.Classes = args.Classes
	cfg.Binary = args.Binary != 0
	cfg.CBOW = args.CBOW != 0
	cfg.SaveVocab = args.SaveVocab
	cfg.ReadVocab = args.ReadVocab
	cfg.Debug = args.Debug
	cfg.Pin = args.Pin != 0
	cfg.PinRepeats = args.PinRepeats
	cfg.PinCSV = args.PinCSV

	if cfg.Train == "" {
		glog.Fatal("missing required flag -train")
	}

	if err := w2vpin.NewTrainer(cfg).Run(); err != nil {
		glog.Fatalf("training failed: %v", err)
	}
}
