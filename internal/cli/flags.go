package cli

import (
	"github.com/spf13/pflag"

	"bankhub/internal/bank"
)

// kindFlag 接受 individual / business。
type kindFlag struct {
	raw string
	c   bank.Category
}

var _ pflag.Value = (*kindFlag)(nil)

func (f *kindFlag) String() string {
	return f.raw
}

// Set implements pflag.Value.
func (f *kindFlag) Set(v string) error {
	c, err := bank.ParseKind(v)
	if err != nil {
		return err
	}
	f.raw, f.c = v, c
	return nil
}

// Type implements pflag.Value.
func (f *kindFlag) Type() string {
	return "individual|business"
}
