package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dpotapov/go-hyper/dom"
	"github.com/dpotapov/go-hyper/render"
)

var (
	appTmpl = render.Must(render.Compile(`<section class="todoapp">
  <h1>todos ${}</h1>
  <ul class="todo-list" ref=${}>${}</ul>
  ${}
</section>`))

	rowTmpl = render.Must(render.Compile(
		`<li key="${}" class="${}"><input type="checkbox" ?checked=${} @change=${}><label>${}</label>` +
			`<button class="destroy" @click=${}>x</button></li>`))

	footerTmpl = render.Must(render.Compile(
		`<footer class="footer"><span class="todo-count">${} ${} left</span></footer>`))

	iconTmpl = render.Must(render.Compile(`<svg viewBox="0 0 10 10">${}</svg>`))
	dotTmpl  = render.Must(render.Compile(`<circle cx="5" cy="5" r="${}" />`))
)

type todo struct {
	id       int
	text     string
	done     bool
	onToggle func(*dom.Event)
	onRemove func(*dom.Event)
}

type todoApp struct {
	engine *render.Engine
	logger *slog.Logger
	render render.RenderFunc
	list   render.Ref
	todos  []*todo
	nextID int
}

func newTodoApp(e *render.Engine, logger *slog.Logger, root *dom.Node) *todoApp {
	return &todoApp{engine: e, logger: logger, render: e.Bind(root)}
}

func (a *todoApp) add(text string) {
	a.nextID++
	t := &todo{id: a.nextID, text: text}
	t.onToggle = func(*dom.Event) {
		t.done = !t.done
		a.logger.Info("Toggle", "id", t.id, "done", t.done)
		a.update()
	}
	t.onRemove = func(*dom.Event) {
		a.remove(t.id)
	}
	a.todos = append(a.todos, t)
}

func (a *todoApp) remove(id int) {
	for i, t := range a.todos {
		if t.id == id {
			a.todos = append(a.todos[:i], a.todos[i+1:]...)
			a.logger.Info("Remove", "id", id)
			a.update()
			return
		}
	}
}

// sortByDone moves completed todos to the end, keeping their relative order.
func (a *todoApp) sortByDone() {
	sort.SliceStable(a.todos, func(i, j int) bool {
		return !a.todos[i].done && a.todos[j].done
	})
	a.update()
}

func (a *todoApp) update() {
	rows := make([]*render.Hole, len(a.todos))
	left := 0
	for i, t := range a.todos {
		class := ""
		if t.done {
			class = "completed"
		} else {
			left++
		}
		rows[i] = a.engine.HTML(rowTmpl, t.id, class, t.done, t.onToggle, t.text, t.onRemove)
	}

	items := "items"
	if left == 1 {
		items = "item"
	}
	footer, err := a.engine.Wire(a, "footer")(footerTmpl, left, items)
	if err != nil {
		a.logger.Error("Render footer", "error", err)
		return
	}

	icon := a.engine.HTML(iconTmpl, a.engine.SVG(dotTmpl, left+1))
	if _, err := a.render(appTmpl, icon, &a.list, rows, footer); err != nil {
		a.logger.Error("Render", "error", err)
	}
}

// item returns the n-th <li> of the rendered list.
func (a *todoApp) item(n int) *dom.Node {
	for c := a.list.Current.FirstChild; c != nil; c = c.NextSibling {
		if c.Data != "li" {
			continue
		}
		if n == 0 {
			return c
		}
		n--
	}
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	registry := prometheus.NewRegistry()
	engine := render.NewEngine(render.Options{
		Logger:  logger,
		Metrics: render.NewMetrics(render.WithRegistry(registry), render.WithNamespace("example")),
	})

	root := dom.NewElement("main")
	var mutations int
	defer root.Observe(func(dom.Mutation) { mutations++ })()

	app := newTodoApp(engine, logger, root)
	for _, text := range []string{"write parser", "port diff", "ship it"} {
		app.add(text)
	}

	step := func(name string, fn func()) {
		mutations = 0
		fn()
		fmt.Printf("== %s (%d mutations)\n%s\n\n", name, mutations, root.InnerHTML())
	}

	step("initial render", app.update)
	step("toggle first", func() {
		app.item(0).FirstChild.DispatchEvent(dom.NewEvent("change"))
	})
	step("move completed down", app.sortByDone)
	step("remove last", func() {
		app.item(2).LastChild.DispatchEvent(dom.NewEvent("click"))
	})

	families, err := registry.Gather()
	if err != nil {
		logger.Error("Gather metrics", "error", err)
		os.Exit(1)
	}
	for _, mf := range families {
		logger.Info("Metric", "name", mf.GetName(), "series", len(mf.GetMetric()))
	}
	logger.Info("Engine stats", "stats", fmt.Sprintf("%+v", engine.Stats()))
}
