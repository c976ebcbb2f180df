package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecorderExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.Mutation("product", "create", nil)
	rec.Mutation("product", "create", errors.New("dup"))
	rec.Login(ResultOK)
	rec.Login("INVALID_CREDENTIALS")
	rec.Login("INVALID_CREDENTIALS")
	rec.PriceResolution("NO_PRICE_AVAILABLE")
	rec.ObserveRequest("GET", "/productos", 200, 20*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "pollos_catalog_mutations_total", map[string]string{"entity": "product", "result": ResultError}); err != nil {
		t.Fatalf("fetch mutations: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one failed mutation, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pollos_logins_total", map[string]string{"result": "INVALID_CREDENTIALS"}); err != nil {
		t.Fatalf("fetch logins: %v", err)
	} else if got != 2 {
		t.Fatalf("expected two rejected logins, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pollos_price_resolutions_total", map[string]string{"result": "NO_PRICE_AVAILABLE"}); err != nil {
		t.Fatalf("fetch resolutions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected one unresolved price, got %f", got)
	}

	if mf := findMetricFamily(mfs, "pollos_http_request_duration_seconds"); mf == nil {
		t.Fatal("expected request histogram to be exported")
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	rec.Mutation("product", "create", nil)
	rec.Login(ResultOK)
	rec.PriceResolution(ResultOK)
	rec.ObserveRequest("GET", "/", 200, time.Millisecond)

	if New(nil) != nil {
		t.Fatal("expected nil registerer to produce a nil recorder")
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok {
			if v != pair.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(want)
}
