package types

import (
	"time"

	"github.com/vantage-lab/senttrade/pkg/errors"
)

// PriceBar is one OHLC aggregate for a symbol. Daily bars carry the date at
// midnight UTC; intraday bars carry the bar's start timestamp.
type PriceBar struct {
	Symbol string    `csv:"symbol" yaml:"symbol"`
	Time   time.Time `csv:"time" yaml:"time"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// Validate checks the OHLC ordering invariant: low <= open, close <= high.
func (b PriceBar) Validate() error {
	if b.Low > b.High {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar %s@%s has low %.4f above high %.4f", b.Symbol, b.Time.Format(time.RFC3339), b.Low, b.High)
	}

	if b.Open < b.Low || b.Open > b.High {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar %s@%s has open %.4f outside [%.4f, %.4f]", b.Symbol, b.Time.Format(time.RFC3339), b.Open, b.Low, b.High)
	}

	if b.Close < b.Low || b.Close > b.High {
		return errors.Newf(errors.ErrCodeInvalidBar, "bar %s@%s has close %.4f outside [%.4f, %.4f]", b.Symbol, b.Time.Format(time.RFC3339), b.Close, b.Low, b.High)
	}

	return nil
}
