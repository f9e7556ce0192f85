// Command benchviz measures keygen/encaps/decaps and keygen/sign/verify
// latencies across parameter sets and renders the distributions as an HTML
// histogram page, plus a JSON stats dump alongside it.
package main

import (
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"pqcrystals/pkg/dilithium"
	"pqcrystals/pkg/kyber"
)

type summaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean_us"`
	Std    float64 `json:"std_us"`
	Min    float64 `json:"min_us"`
	Median float64 `json:"median_us"`
	Q3     float64 `json:"q3_us"`
	Max    float64 `json:"max_us"`
}

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)
	var m2 float64
	for _, v := range x {
		d := v - m
		m2 += d * d
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	return summaryStats{
		Count:  n,
		Mean:   m,
		Std:    std,
		Min:    cp[0],
		Median: quantileSorted(cp, 0.5),
		Q3:     quantileSorted(cp, 0.75),
		Max:    cp[n-1],
	}
}

func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	l := int(math.Floor(pos))
	r := int(math.Ceil(pos))
	if l == r {
		return sorted[l]
	}
	w := pos - float64(l)
	return sorted[l]*(1-w) + sorted[r]*w
}

func computeHistogram(values []float64, nbins int) (edges []float64, counts []int) {
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	minv, maxv := cp[0], cp[len(cp)-1]
	width := (maxv - minv) / float64(nbins)
	if width <= 0 {
		width = 1
	}
	edges = make([]float64, nbins+1)
	for i := 0; i <= nbins; i++ {
		edges[i] = minv + float64(i)*width
	}
	counts = make([]int, nbins)
	for _, v := range values {
		idx := int(math.Floor((v - minv) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}
	return
}

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64) *charts.Bar {
	const nbins = 50
	st := computeStats(values)
	edges, counts := computeHistogram(values, nbins)
	xLabels := make([]string, nbins)
	for i := 0; i < nbins; i++ {
		center := 0.5 * (edges[i] + edges[i+1])
		xLabels[i] = fmt.Sprintf("%.1f", center)
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.1fµs, std=%.1fµs, median=%.1fµs, max=%.1fµs",
		st.Count, st.Mean, st.Std, st.Median, st.Max)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// measure runs op repeatedly and returns per-call latencies in microseconds.
func measure(runs int, op func()) []float64 {
	vals := make([]float64, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		op()
		vals[i] = float64(time.Since(start).Nanoseconds()) / 1e3
	}
	return vals
}

func main() {
	runs := flag.Int("runs", 200, "measurements per operation")
	outDir := flag.String("out", "bench_reports", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	allStats := map[string]summaryStats{}
	page := components.NewPage()
	add := func(name string, vals []float64) {
		allStats[name] = computeStats(vals)
		page.AddCharts(newHistogramChart(name, vals))
	}

	msg := make([]byte, 64)
	rand.Read(msg)

	for _, p := range []kyber.Params{kyber.Kyber512, kyber.Kyber768, kyber.Kyber1024} {
		log.Printf("[benchviz] %s (%d runs/op)", p.Name, *runs)
		pk, sk, err := p.GenerateKey(rand.Reader)
		if err != nil {
			log.Fatalf("%s keygen: %v", p.Name, err)
		}
		ct, _, err := p.Encapsulate(pk, rand.Reader)
		if err != nil {
			log.Fatalf("%s encaps: %v", p.Name, err)
		}

		add(p.Name+" keygen", measure(*runs, func() {
			if _, _, err := p.GenerateKey(rand.Reader); err != nil {
				log.Fatal(err)
			}
		}))
		add(p.Name+" encaps", measure(*runs, func() {
			if _, _, err := p.Encapsulate(pk, rand.Reader); err != nil {
				log.Fatal(err)
			}
		}))
		add(p.Name+" decaps", measure(*runs, func() {
			if _, err := p.Decapsulate(sk, ct); err != nil {
				log.Fatal(err)
			}
		}))
	}

	for _, p := range []dilithium.Params{dilithium.Dilithium2, dilithium.Dilithium3, dilithium.Dilithium5} {
		log.Printf("[benchviz] %s (%d runs/op)", p.Name, *runs)
		seed := make([]byte, dilithium.SeedSize)
		rand.Read(seed)
		pk, sk, err := p.KeyGen(seed)
		if err != nil {
			log.Fatalf("%s keygen: %v", p.Name, err)
		}
		sig, err := p.Sign(sk, msg)
		if err != nil {
			log.Fatalf("%s sign: %v", p.Name, err)
		}

		add(p.Name+" keygen", measure(*runs, func() {
			if _, _, err := p.KeyGen(seed); err != nil {
				log.Fatal(err)
			}
		}))
		// signing latency includes rejection retries, so expect a long tail
		orig := msg[0]
		i := 0
		add(p.Name+" sign", measure(*runs, func() {
			msg[0] = byte(i)
			i++
			if _, err := p.Sign(sk, msg); err != nil {
				log.Fatal(err)
			}
		}))
		msg[0] = orig
		add(p.Name+" verify", measure(*runs, func() {
			if !p.Verify(pk, msg, sig) {
				log.Fatal("valid signature rejected")
			}
		}))
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("latency_stats_%s.json", ts))
	b, err := json.MarshalIndent(allStats, "", "  ")
	if err != nil {
		log.Fatalf("marshal stats: %v", err)
	}
	if err := os.WriteFile(jsonPath, b, 0o644); err != nil {
		log.Fatalf("write stats: %v", err)
	}

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("latency_histograms_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Histogram page:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
