package config

import (
	"github.com/Artexxx/perf-tracker/library/mongodb"
	"github.com/Artexxx/perf-tracker/library/pg"
	"github.com/Artexxx/perf-tracker/library/yamlenv"
)

type Config struct {
	Postgres pg.PostgresConfig   `yaml:"postgres"`
	Mongo    mongodb.MongoConfig `yaml:"mongo"`
	API      ApiConfig           `yaml:"api"`
}

type ApiConfig struct {
	Port *yamlenv.Env[int] `yaml:"port"`
}
