package mm

import (
	"mmbench/param"
)

// NewConfig derives the multiplier settings from the process config.
// nthread is the resolved worker count.
func NewConfig(p param.Config, nthread int) (Config, error) {
	part, err := ParsePartition(p.Partition)
	if err != nil {
		return Config{}, err
	}
	budget := p.Budget
	if budget < 0 {
		budget = UNLIMITED
	}
	return Config{
		Nthread:   nthread,
		Budget:    budget,
		Poll:      p.PollInterval,
		Partition: part,
	}, nil
}
