package render

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/go-hyper/dom"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	e := NewEngine(Options{Metrics: m})

	list := Must(New(`<ul>`, `</ul>`))
	row := Must(New(`<li key=`, `>`, `</li>`))
	rows := func(ids ...int) []*Hole {
		var holes []*Hole
		for _, id := range ids {
			holes = append(holes, e.HTML(row, id, id))
		}
		return holes
	}

	render := e.Bind(dom.NewElement("main"))
	_, err := render(list, rows(1, 2))
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.renders.WithLabelValues("replace")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.templatesParsed.WithLabelValues("html")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.diffOps.WithLabelValues("insert")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.keyedEntries))

	_, err = render(list, rows(2))
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.renders.WithLabelValues("update")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.diffOps.WithLabelValues("remove")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.keyedEntries))
	assert.Equal(t, 1, testutil.CollectAndCount(m.renderDuration))

	n, err := testutil.GatherAndCount(reg, "test_render_renders_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetrics_Options(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("app"))
	m.parsed(true)
	m.rendered("replace", 0.002)

	n, err := testutil.GatherAndCount(reg, "app_render_templates_parsed_total", "app_render_render_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.templatesParsed.WithLabelValues("svg")))

	assert.Panics(t, func() { NewMetrics(WithRegistry(reg), WithNamespace("app")) }, "duplicate registration")
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.parsed(false)
		m.rendered("update", 0.1)
		m.diffOp(opInsert)
		m.keyed(1)
	})
}
