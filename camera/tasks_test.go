package camera

import (
	"math"
	"sync"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/followcam/common"
	"github.com/milk9111/followcam/geom"
)

func TestRegistryOrdering(t *testing.T) {
	r := NewRegistry[string]()
	r.Add("c", 30)
	r.Add("a", 10)
	r.Add("b", 20)
	r.Add("a2", 10)
	r.Add("a", 99)

	want := []string{"a", "a2", "b", "c"}
	got := r.Snapshot()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if o, _ := r.Order("a"); o != 10 {
		t.Fatalf("duplicate add changed the key: %d", o)
	}

	if !r.SetOrder("c", 0) {
		t.Fatalf("SetOrder on a known handle failed")
	}
	if r.Snapshot()[0] != "a" {
		t.Fatalf("SetOrder moved the handle before Sort")
	}
	r.Sort()
	if r.Snapshot()[0] != "c" {
		t.Fatalf("Sort did not apply the new key: %v", r.Snapshot())
	}

	if !r.Remove("b") || r.Remove("b") {
		t.Fatalf("Remove should succeed exactly once")
	}
	if r.Len() != 3 || r.Contains("b") {
		t.Fatalf("unexpected registry state %v", r.Snapshot())
	}
}

func TestRegistrySortExtremeKeys(t *testing.T) {
	r := NewRegistry[string]()
	r.Add("low", 0)
	r.Add("high", 1)
	r.SetOrder("low", math.MinInt)
	r.SetOrder("high", math.MaxInt)
	r.Sort()

	got := r.Snapshot()
	if got[0] != "low" || got[1] != "high" {
		t.Fatalf("expected [low high], got %v", got)
	}
}

type sliceHandle []int

type funcHandle func()

func TestRegistryNonComparableHandles(t *testing.T) {
	r := NewRegistry[any]()
	r.Add(sliceHandle{1}, 0)
	r.Add(funcHandle(func() {}), 0)
	r.Add("named", 1)

	if r.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", r.Len())
	}
	if r.Contains(sliceHandle{1}) {
		t.Fatalf("non-comparable handle matched a lookup")
	}
	if !r.Remove("named") {
		t.Fatalf("comparable handle not found past non-comparable entries")
	}
	if r.Contains(nil) {
		t.Fatalf("nil matched a non-nil handle")
	}
}

func TestSchedulerOrderAndCancel(t *testing.T) {
	s := NewScheduler()
	var log []string

	step := func(name string, n int) Step {
		return func(dt float64) bool {
			log = append(log, name)
			n--
			return n <= 0
		}
	}

	s.Start(step("a", 2))
	keyed := s.StartKeyed("k", step("k1", 5))
	s.Advance(0.1)
	if len(log) != 2 || log[0] != "a" || log[1] != "k1" {
		t.Fatalf("unexpected first tick %v", log)
	}

	s.StartKeyed("k", step("k2", 1))
	if !keyed.Canceled() {
		t.Fatalf("keyed start did not cancel the running task")
	}

	log = log[:0]
	s.Advance(0.1)
	if len(log) != 2 || log[0] != "a" || log[1] != "k2" {
		t.Fatalf("unexpected second tick %v", log)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no live tasks, got %d", s.Len())
	}
	if _, ok := s.Running("k"); ok {
		t.Fatalf("finished keyed task still running")
	}
}

func TestSchedulerStartDuringAdvance(t *testing.T) {
	s := NewScheduler()
	ran := 0
	s.Start(func(dt float64) bool {
		s.Start(func(dt float64) bool {
			ran++
			return true
		})
		return true
	})

	s.Advance(0.1)
	if ran != 0 {
		t.Fatalf("task started during advance ran in the same tick")
	}
	s.Advance(0.1)
	if ran != 1 {
		t.Fatalf("expected nested task to run once, ran %d", ran)
	}
}

func TestAddTargetFadesIn(t *testing.T) {
	c, _ := newTestCamera(t, snapConfig)
	tg := c.AddTarget(geom.NewMarker(geom.Vec3{X: 10}), 1, 1, 0.1, cp.Vector{})
	if tg.InfluenceH() != 0 || tg.InfluenceV() != 0 {
		t.Fatalf("fading target should start at zero weight")
	}

	c.Move(0.05)
	if !nearly(tg.InfluenceH(), 0.5, 1e-9) {
		t.Fatalf("expected half weight, got %v", tg.InfluenceH())
	}
	c.Move(0.05)
	if !nearly(tg.InfluenceH(), 1, 1e-9) || !nearly(tg.InfluenceV(), 1, 1e-9) {
		t.Fatalf("expected full weight, got %v/%v", tg.InfluenceH(), tg.InfluenceV())
	}
}

func TestRemoveTargetFadesOutAndEvicts(t *testing.T) {
	c, _ := newTestCamera(t, snapConfig)
	m := geom.NewMarker(geom.Vec3{X: 10})
	tg := c.AddTarget(m, 1, 1, 0, cp.Vector{})

	c.RemoveTarget(m, 0.1)
	c.Move(0.05)
	if c.TargetCount() != 1 {
		t.Fatalf("target evicted before the fade finished")
	}
	if !nearly(tg.InfluenceH(), 0.5, 1e-9) {
		t.Fatalf("expected half weight mid-fade, got %v", tg.InfluenceH())
	}
	c.Move(0.06)
	if c.TargetCount() != 0 {
		t.Fatalf("target not evicted after the fade")
	}

	events := c.Events().Drain()
	if len(events) != 1 || events[0].Type != EventTargetRemoved || events[0].Data != tg {
		t.Fatalf("expected one removal event, got %v", events)
	}
}

func TestRemoveTargetCancelsFade(t *testing.T) {
	c, _ := newTestCamera(t, snapConfig)
	tg := c.AddTarget(geom.NewMarker(geom.Vec3{X: 10}), 1, 1, 1, cp.Vector{})
	c.Move(0.1)

	c.RemoveTargetHandle(tg, 0)
	if _, ok := c.Scheduler().Running(fadeKey{tg}); ok {
		t.Fatalf("fade survived removal")
	}
	h := tg.InfluenceH()
	c.Move(0.1)
	if tg.InfluenceH() != h {
		t.Fatalf("removed target still fading: %v -> %v", h, tg.InfluenceH())
	}
}

func TestAdjustTargetInfluence(t *testing.T) {
	c, _ := newTestCamera(t, snapConfig)
	tg := c.AddTarget(geom.NewMarker(geom.Vec3{X: 10, Y: 4}), 1, 1, 0, cp.Vector{})

	if task := c.AdjustTargetInfluence(tg, 0.25, 0.75, 0, common.EaseLinear); task != nil {
		t.Fatalf("instant adjustment should not schedule a task")
	}
	if tg.InfluenceH() != 0.25 || tg.InfluenceV() != 0.75 {
		t.Fatalf("expected 0.25/0.75, got %v/%v", tg.InfluenceH(), tg.InfluenceV())
	}

	task := c.AdjustTargetInfluence(tg, 1, 1, 0.2, common.EaseInOut)
	c.Move(0.1)
	if !nearly(tg.InfluenceH(), 0.625, 1e-9) {
		t.Fatalf("expected eased midpoint 0.625, got %v", tg.InfluenceH())
	}
	c.Move(0.1)
	if !task.Done() {
		t.Fatalf("fade did not finish")
	}

	tg.SetInfluence(-3, -1)
	if tg.InfluenceH() != 0 || tg.InfluenceV() != 0 {
		t.Fatalf("negative weights not clamped")
	}
}

func TestApplyInfluencesTimed(t *testing.T) {
	c, _ := newTestCamera(t, snapConfig)

	c.ApplyInfluencesTimed(
		[]cp.Vector{{X: 1}, {Y: 2}, {X: 3}},
		[]float64{0.2, 0, 0.1, 99},
	)

	want := []cp.Vector{{X: 1}, {X: 1}, {Y: 2}, {X: 3}, {}}
	for i, w := range want {
		c.Move(0.1)
		if got := c.InfluencesSum(); got != w {
			t.Fatalf("tick %d: expected %v, got %v", i, w, got)
		}
	}

	first := c.ApplyInfluencesTimed([]cp.Vector{{X: 5}}, []float64{1})
	c.Move(0.1)
	second := c.ApplyInfluencesTimed([]cp.Vector{{X: -5}}, []float64{1})
	if !first.Canceled() || second.Done() {
		t.Fatalf("new sequence should replace the running one")
	}
	c.Move(0.1)
	if got := c.InfluencesSum(); got != (cp.Vector{X: -5}) {
		t.Fatalf("expected replacement influence, got %v", got)
	}
}

func TestConcurrentTargetMutation(t *testing.T) {
	c, _ := newTestCamera(t, nil)
	lead := c.AddTarget(geom.NewMarker(geom.Vec3{}), 1, 1, 0, cp.Vector{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m := geom.NewMarker(geom.Vec3{X: float64(i)})
			tg := c.AddTarget(m, 1, 1, 0.5, cp.Vector{})
			c.AdjustTargetInfluence(lead, 1, float64(i%3), 0.1, common.EaseLinear)
			c.ApplyInfluencesTimed([]cp.Vector{{X: 1}}, []float64{0.05})
			c.ApplyInfluence(cp.Vector{Y: 0.1})
			if i%2 == 0 {
				c.RemoveTargetHandle(tg, 0.05)
			}
		}
	}()
	for i := 0; i < 200; i++ {
		c.Move(1.0 / 60)
		c.Events().Drain()
	}
	wg.Wait()

	for i := 0; i < 60; i++ {
		c.Move(1.0 / 60)
	}
	if n := c.TargetCount(); n != 101 {
		t.Fatalf("expected 101 targets after fades settle, got %d", n)
	}
	if c.Scheduler().Len() != 0 {
		t.Fatalf("tasks still running: %d", c.Scheduler().Len())
	}
}
