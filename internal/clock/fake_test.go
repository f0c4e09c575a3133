package clock

import (
	"reflect"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var got []string
	c.AfterFunc(3*time.Second, func() { got = append(got, "c") })
	c.AfterFunc(1*time.Second, func() { got = append(got, "a") })
	c.AfterFunc(2*time.Second, func() { got = append(got, "b") })

	c.Advance(1500 * time.Millisecond)
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("after 1.5s got=%v", got)
	}
	c.Advance(2 * time.Second)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("after 3.5s got=%v", got)
	}
	if c.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", c.Pending())
	}
}

func TestFakeTiesRunInRegistrationOrder(t *testing.T) {
	c := Fake(epoch)
	var got []int
	for i := 0; i < 4; i++ {
		i := i
		c.AfterFunc(time.Second, func() { got = append(got, i) })
	}
	c.Advance(time.Second)
	if !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestFakeStopPreventsCallback(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	if c.Pending() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", c.Pending())
	}
	if !timer.Stop() {
		t.Fatalf("expected Stop to report an active timer")
	}
	if timer.Stop() {
		t.Fatalf("second Stop should report false")
	}
	c.Advance(time.Minute)
	if fired {
		t.Fatalf("stopped timer fired")
	}
}

func TestFakeStopAfterFireReportsFalse(t *testing.T) {
	c := Fake(epoch)
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	if timer.Stop() {
		t.Fatalf("Stop after fire should report false")
	}
}

func TestFakeNowMovesWithAdvance(t *testing.T) {
	c := Fake(epoch)
	c.Advance(90 * time.Minute)
	if want := epoch.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Fatalf("now=%v want=%v", c.Now(), want)
	}
}

func TestFakeCallbackMayScheduleMore(t *testing.T) {
	c := Fake(epoch)
	count := 0
	c.AfterFunc(time.Second, func() {
		count++
		c.AfterFunc(0, func() { count++ })
	})
	c.Advance(time.Second)
	if count != 2 {
		t.Fatalf("expected nested zero-delay callback to run, count=%d", count)
	}
}

func TestNilTimerStop(t *testing.T) {
	var timer *Timer
	if timer.Stop() {
		t.Fatalf("nil timer Stop should be false")
	}
}
