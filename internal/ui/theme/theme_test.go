package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleSwitchesDarkAndLight(t *testing.T) {
	t.Cleanup(func() { SetTheme(Nord) })

	SetTheme(Nord)
	assert.Equal(t, "latte", Toggle().Name)
	assert.False(t, Current.Theme.Dark)
	assert.Equal(t, "nord", Toggle().Name)
	assert.True(t, Current.Theme.Dark)
}

func TestByName(t *testing.T) {
	th, ok := ByName("latte")
	assert.True(t, ok)
	assert.Equal(t, Latte.Primary, th.Primary)

	_, ok = ByName("dracula")
	assert.False(t, ok)
}

func TestPriorityColor(t *testing.T) {
	assert.Equal(t, Nord.PriorityHigh, Nord.PriorityColor("high"))
	assert.Equal(t, Nord.PriorityLow, Nord.PriorityColor("low"))
	assert.Equal(t, Nord.PriorityMedium, Nord.PriorityColor("urgent"))
}
