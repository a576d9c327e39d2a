package qkern

import "runtime"

type Config struct {
	Shots   int
	Seed    int64
	Workers int
}

func NewConfig() *Config {
	return &Config{
		Shots:   4096,
		Seed:    1,
		Workers: runtime.NumCPU(),
	}
}
