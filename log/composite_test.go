package log_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.bryk.io/routebroker/log"
)

func TestComposite(t *testing.T) {
	var bufA, bufB bytes.Buffer
	a := log.WithZero(log.ZeroOptions{Sink: &bufA})
	b := log.WithZero(log.ZeroOptions{Sink: &bufB})
	c := log.NewComposite(a, b)

	c.WithField("topic", "10.0.0.0/24").Info("route added")
	assert.Contains(t, bufA.String(), "route added")
	assert.Contains(t, bufB.String(), "route added")
	assert.Contains(t, bufA.String(), "10.0.0.0/24")
}

func TestDiscard(t *testing.T) {
	d := log.Discard()
	assert.NotPanics(t, func() {
		d.WithField("k", "v").Sub(log.Fields{"a": 1}).Error("ignored")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.Debug, log.ParseLevel("debug"))
	assert.Equal(t, log.Info, log.ParseLevel("unknown"))
	assert.Equal(t, log.Fatal, log.ParseLevel("fatal"))
}
