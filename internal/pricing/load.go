package pricing

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

// File is the on-disk (YAML) and environment shape of the price table.
type File struct {
	WordsPerPage int    `yaml:"words_per_page" env:"PRICING_WORDS_PER_PAGE" env-default:"450"`
	Currency     string `yaml:"currency" env:"PRICING_CURRENCY" env-default:"$"`

	RephrasingLabel  string  `yaml:"rephrasing_label" env:"PRICING_REPHRASING_LABEL" env-default:"Rephrasing"`
	RephrasingNormal float64 `yaml:"rephrasing_normal" env:"PRICING_REPHRASING_NORMAL" env-default:"5"`
	RephrasingFast   float64 `yaml:"rephrasing_fast" env:"PRICING_REPHRASING_FAST" env-default:"10"`

	TranslationLabel  string  `yaml:"translation_label" env:"PRICING_TRANSLATION_LABEL" env-default:"Translation"`
	TranslationNormal float64 `yaml:"translation_normal" env:"PRICING_TRANSLATION_NORMAL" env-default:"7"`
	TranslationFast   float64 `yaml:"translation_fast" env:"PRICING_TRANSLATION_FAST" env-default:"10"`

	NormalLabel string `yaml:"normal_label" env:"PRICING_NORMAL_LABEL" env-default:"Normal delivery"`
	FastLabel   string `yaml:"fast_label" env:"PRICING_FAST_LABEL" env-default:"Fast delivery"`
}

// Default returns the built-in table.
func Default() *Table {
	t, err := FromFile(File{
		WordsPerPage:      450,
		Currency:          "$",
		RephrasingLabel:   "Rephrasing",
		RephrasingNormal:  5,
		RephrasingFast:    10,
		TranslationLabel:  "Translation",
		TranslationNormal: 7,
		TranslationFast:   10,
		NormalLabel:       "Normal delivery",
		FastLabel:         "Fast delivery",
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads the table from a YAML file, with environment variables taking
// precedence. An empty path reads the environment and defaults only.
func Load(path string) (*Table, error) {
	var f File
	if path != "" {
		if err := cleanenv.ReadConfig(path, &f); err != nil {
			return nil, fmt.Errorf("failed to read pricing file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&f); err != nil {
		return nil, fmt.Errorf("failed to read pricing from environment: %w", err)
	}
	return FromFile(f)
}

func FromFile(f File) (*Table, error) {
	if f.WordsPerPage <= 0 {
		return nil, fmt.Errorf("words_per_page must be positive, got %d", f.WordsPerPage)
	}
	for name, v := range map[string]float64{
		"rephrasing_normal":  f.RephrasingNormal,
		"rephrasing_fast":    f.RephrasingFast,
		"translation_normal": f.TranslationNormal,
		"translation_fast":   f.TranslationFast,
	} {
		if v < 0 {
			return nil, fmt.Errorf("%s must not be negative, got %v", name, v)
		}
	}

	return &Table{
		rates: map[Service]map[Speed]decimal.Decimal{
			Rephrasing: {
				Normal: decimal.NewFromFloat(f.RephrasingNormal),
				Fast:   decimal.NewFromFloat(f.RephrasingFast),
			},
			Translation: {
				Normal: decimal.NewFromFloat(f.TranslationNormal),
				Fast:   decimal.NewFromFloat(f.TranslationFast),
			},
		},
		serviceLabels: map[Service]string{
			Rephrasing:  f.RephrasingLabel,
			Translation: f.TranslationLabel,
		},
		speedLabels: map[Speed]string{
			Normal: f.NormalLabel,
			Fast:   f.FastLabel,
		},
		wordsPerPage: f.WordsPerPage,
		currency:     f.Currency,
	}, nil
}
