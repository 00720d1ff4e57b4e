package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/netsim-lab/csmacd-sim/sim"
	"github.com/netsim-lab/csmacd-sim/sim/trace"
)

// flagFields copies the field a flag controls from src to dst. Flags absent
// from this table (log, config, env-file, output) do not feed SimConfig.
var flagFields = map[string]func(dst, src *sim.SimConfig){
	"seed":              func(dst, src *sim.SimConfig) { dst.Seed = src.Seed },
	"horizon":           func(dst, src *sim.SimConfig) { dst.Horizon = src.Horizon },
	"nodes":             func(dst, src *sim.SimConfig) { dst.Workload.NumNodes = src.Workload.NumNodes },
	"rate":              func(dst, src *sim.SimConfig) { dst.Workload.ArrivalRate = src.Workload.ArrivalRate },
	"trace":             func(dst, src *sim.SimConfig) { dst.TraceLevel = src.TraceLevel },
	"persistence":       func(dst, src *sim.SimConfig) { dst.Protocol.Persistence = src.Protocol.Persistence },
	"max-retries":       func(dst, src *sim.SimConfig) { dst.Protocol.MaxRetries = src.Protocol.MaxRetries },
	"backoff-cap":       func(dst, src *sim.SimConfig) { dst.Protocol.BackoffCap = src.Protocol.BackoffCap },
	"distance":          func(dst, src *sim.SimConfig) { dst.Bus.DistanceBetweenNodes = src.Bus.DistanceBetweenNodes },
	"propagation-speed": func(dst, src *sim.SimConfig) { dst.Bus.PropagationSpeed = src.Bus.PropagationSpeed },
	"transmission-rate": func(dst, src *sim.SimConfig) { dst.Bus.TransmissionRate = src.Bus.TransmissionRate },
	"packet-length":     func(dst, src *sim.SimConfig) { dst.Bus.PacketLength = src.Bus.PacketLength },
	"slot-bits":         func(dst, src *sim.SimConfig) { dst.Bus.SlotBits = src.Bus.SlotBits },
}

// configFromFlags builds a SimConfig from the current flag variables.
func configFromFlags() sim.SimConfig {
	return sim.SimConfig{
		Horizon:    horizon,
		Seed:       seed,
		Bus:        sim.NewBusConfig(distance, propagationSpeed, transmissionRate, packetLength, slotBits),
		Protocol:   sim.NewProtocolConfig(sim.Persistence(persistence), maxRetries, backoffCap),
		Workload:   sim.NewWorkloadConfig(numNodes, arrivalRate),
		TraceLevel: trace.TraceLevel(traceLevel),
	}
}

// resolveConfig layers the configuration sources, lowest precedence first:
// flag defaults, the YAML scenario, the env file, explicit flags. The env
// file is applied to the flag set before anything else so its values behave
// like flags that were set. The returned scenario is nil without --config.
func resolveConfig(fs *pflag.FlagSet) (sim.SimConfig, *sim.Scenario, error) {
	if envFile != "" {
		if err := applyEnvFile(fs, envFile); err != nil {
			return sim.SimConfig{}, nil, err
		}
	}

	fromFlags := configFromFlags()
	if configPath == "" {
		if err := fromFlags.Validate(); err != nil {
			return sim.SimConfig{}, nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return fromFlags, nil, nil
	}

	sc, err := sim.LoadScenario(configPath)
	if err != nil {
		return sim.SimConfig{}, nil, err
	}
	cfg := fromFlags
	if err := sc.Apply(&cfg); err != nil {
		return sim.SimConfig{}, nil, fmt.Errorf("scenario %s: %w", configPath, err)
	}
	fs.Visit(func(f *pflag.Flag) {
		if copyField, ok := flagFields[f.Name]; ok {
			copyField(&cfg, &fromFlags)
			logrus.Debugf("flag --%s=%s overrides scenario", f.Name, f.Value.String())
		}
	})
	if err := cfg.Validate(); err != nil {
		return sim.SimConfig{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, sc, nil
}
