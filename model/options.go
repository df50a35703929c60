package model

import (
	"fmt"
	"time"

	"healthchat/config"
)

// ConcurrencyPolicy decides what happens when a turn is submitted while
// another one is still running.
type ConcurrencyPolicy int

const (
	// PolicyOverlap runs every turn immediately. Turns stay isolated because
	// each one addresses its own assistant message.
	PolicyOverlap ConcurrencyPolicy = iota
	// PolicySerialize acknowledges a turn right away but starts its pipeline
	// only after every earlier turn has finished.
	PolicySerialize
)

func (p ConcurrencyPolicy) String() string {
	switch p {
	case PolicyOverlap:
		return "overlap"
	case PolicySerialize:
		return "serialize"
	default:
		return fmt.Sprintf("ConcurrencyPolicy(%d)", int(p))
	}
}

func ParsePolicy(s string) (ConcurrencyPolicy, error) {
	switch s {
	case "", "overlap":
		return PolicyOverlap, nil
	case "serialize":
		return PolicySerialize, nil
	default:
		return PolicyOverlap, fmt.Errorf("unknown concurrency policy %q", s)
	}
}

type Options struct {
	RevealDelay        time.Duration
	AnalysisTimeout    time.Duration
	RecognitionTimeout time.Duration
	Policy             ConcurrencyPolicy
}

func DefaultOptions() Options {
	return Options{
		RevealDelay:        config.DefaultRevealDelay,
		AnalysisTimeout:    config.DefaultAnalysisTimeout,
		RecognitionTimeout: config.DefaultOCRTimeout,
		Policy:             PolicyOverlap,
	}
}

// OptionsFromConfig maps the [chat], [analysis] and [ocr] settings onto
// controller options. cfg is expected to have passed Validate.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	policy, err := ParsePolicy(cfg.Chat.ConcurrencyPolicy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		RevealDelay:        cfg.Chat.RevealDelay.Duration,
		AnalysisTimeout:    cfg.Analysis.Timeout.Duration,
		RecognitionTimeout: cfg.OCR.Timeout.Duration,
		Policy:             policy,
	}, nil
}
