package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/gesture"
)

func TestDemoEmotionCycle(t *testing.T) {
	for i, want := range demoOrder {
		at := time.Duration(i)*phaseLength + phaseLength/2
		if got := demoEmotion(at); got != want {
			t.Errorf("demoEmotion(%v) = %s, want %s", at, got, want)
		}
	}
	if got := demoEmotion(time.Duration(len(demoOrder)) * phaseLength); got != demoOrder[0] {
		t.Errorf("cycle should wrap, got %s", got)
	}
}

func TestDemoFaceClassifies(t *testing.T) {
	c := emotion.NewClassifier(emotion.DefaultClassifierConfig())

	for _, e := range []emotion.Emotion{emotion.Happy, emotion.Surprised} {
		i := 0
		for j, o := range demoOrder {
			if o == e {
				i = j
			}
		}
		at := time.Duration(i)*phaseLength + phaseLength/2

		face := demoFace(at)
		if !face.Detected || !face.HasExpression() {
			t.Fatalf("demo face at %v has no expression", at)
		}
		if got, _ := emotion.Dominant(c.Classify(face.Blendshapes)); got != e {
			t.Errorf("demo %s face classified as %s", e, got)
		}
		center := face.Box.Center()
		if center.X < 0 || center.X > 1 || center.Y < 0 || center.Y > 1 {
			t.Errorf("face center out of frame: %+v", center)
		}
	}
}

func TestDemoWink(t *testing.T) {
	face := demoFace(winkEvery + winkLength/2)
	if face.Blendshapes[emotion.EyeBlinkLeft] < emotion.DefaultWinkConfig().Threshold {
		t.Error("demo should wink every cycle")
	}
}

func TestDemoHands(t *testing.T) {
	third := handCycle / 3

	push := demoHands(third / 2)
	o, ok := push.Find(gesture.Left)
	if !ok || *o.Gesture != gesture.Push {
		t.Errorf("first third should push with the left hand: %+v", push)
	}

	attract := demoHands(third + third/2)
	o, ok = attract.Find(gesture.Right)
	if !ok || *o.Gesture != gesture.Attract {
		t.Errorf("second third should attract with the right hand: %+v", attract)
	}

	if idle := demoHands(2*third + third/2); len(idle.Observations) != 0 {
		t.Errorf("last third should have no hands: %+v", idle)
	}
}

func TestReplaySkipsBadLines(t *testing.T) {
	// A nil conn would panic on write, so only malformed and blank lines.
	in := strings.NewReader("\nnot json\n\n")
	n, err := replay(context.Background(), &sender{}, in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if n != 0 {
		t.Errorf("sent %d, want 0", n)
	}
}
