package main

import (
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"colmto/internal/app"
	"colmto/internal/config"
	"colmto/internal/cse"
	csemetrics "colmto/internal/cse/metrics"
	"colmto/internal/rule/cache"
	"colmto/internal/vehicle"
)

// defaultScenario is used when OTL_RULES_FILE is unset: deny trucks, deny
// slow vehicles, deny dissatisfied-enough tractors inside the merge zone and
// deny slow vans via an expression rule.
const defaultScenario = `
rules:
  - type: vehicle_type
    args:
      vehicle_type: truck
  - type: minimal_speed
    args:
      threshold: 16.0
  - type: position
    args:
      bounding_box: [[0.0, -2.0], [1400.0, 2.0]]
    subrule_operator: all
    subrules:
      - type: vehicle_type
        args:
          vehicle_type: tractor
      - type: dissatisfaction
        args:
          range: [0.0, 0.45]
  - type: expression
    args:
      condition: 'vtype == "van" && speed_max < 30.0'
`

// SUMO vehicle class strings the driver maps access classes onto; the
// generated network permits allowedVClass on the overtaking lane.
const (
	allowedVClass    = "custom2"
	disallowedVClass = "custom1"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	doc := defaultScenario
	if cfg.RulesFile != "" {
		raw, err := os.ReadFile(cfg.RulesFile)
		if err != nil {
			logger.Fatalf("failed to read rules file: %v", err)
		}
		doc = string(raw)
	}

	registry := prometheus.NewRegistry()
	observer := cse.NewAsyncDecisionObserver(fanout{
		cse.NewDecisionLogger(logger),
		csemetrics.New(registry),
	}, cfg.ObsBuffer)
	defer observer.Close()

	svc := app.NewService(cache.NewInMemory(cfg.CacheMaxItems), cse.WithDecisionObserver(observer))
	engine, err := svc.Engine(doc)
	if err != nil {
		logger.Fatalf("failed to build rule set: %v", err)
	}

	if cfg.DOTOut != "" {
		dot, err := engine.DOT()
		if err != nil {
			logger.Fatalf("failed to render rule set: %v", err)
		}
		if err := os.WriteFile(cfg.DOTOut, []byte(dot), 0o644); err != nil {
			logger.Fatalf("failed to write %s: %v", cfg.DOTOut, err)
		}
		logger.Printf("rule set written to %s", cfg.DOTOut)
	}

	fleet := spawnFleet(cfg.Vehicles)
	for step := 1; step <= cfg.Steps; step++ {
		t := float64(step)
		for i, v := range fleet {
			speed := v.SpeedMax * cruiseFactor(i)
			v.Update(vehicle.Position{X: speed * t, Y: 0}, i%2, speed, t)
		}
		engine.Apply(fleet)
	}

	for _, v := range fleet {
		logger.Printf("vehicle=%s vtype=%s speed_max=%.1f dsat=%.3f class=%s vclass=%s",
			v.ID, v.Type, v.SpeedMax, v.Dissatisfaction, v.AccessClass, vclass(v.AccessClass))
	}

	observer.Close()
	families, err := registry.Gather()
	if err != nil {
		logger.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "colmto_cse_decisions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				logger.Printf("decisions class=%s total=%.0f", l.GetValue(), m.GetCounter().GetValue())
			}
		}
	}
	if dropped := observer.Dropped(); dropped > 0 {
		logger.Printf("observer dropped %d events", dropped)
	}
}

// fanout forwards each decision to every wrapped observer.
type fanout []cse.DecisionObserver

func (f fanout) ObserveDecision(vehicleID string, class vehicle.AccessClass, duration time.Duration) {
	for _, o := range f {
		o.ObserveDecision(vehicleID, class, duration)
	}
}

func vclass(class vehicle.AccessClass) string {
	if class == vehicle.Deny {
		return disallowedVClass
	}
	return allowedVClass
}

var fleetTemplates = []struct {
	vtype    vehicle.VehicleType
	speedMax float64
}{
	{vehicle.Passenger, 34.0},
	{vehicle.Truck, 22.0},
	{vehicle.Van, 25.0},
	{vehicle.Delivery, 27.0},
	{vehicle.HeavyTransport, 18.0},
	{vehicle.Tractor, 8.5},
}

func spawnFleet(n int) []*vehicle.Vehicle {
	fleet := make([]*vehicle.Vehicle, 0, n)
	for i := 0; i < n; i++ {
		tpl := fleetTemplates[i%len(fleetTemplates)]
		fleet = append(fleet, vehicle.New(tpl.vtype, tpl.speedMax, 0))
	}
	return fleet
}

// cruiseFactor keeps every vehicle below its maximum speed so time loss stays
// non-negative, the driver invariant the dissatisfaction model asserts.
func cruiseFactor(i int) float64 {
	return 0.70 + 0.05*float64(i%6)
}
