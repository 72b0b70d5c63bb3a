package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	o := NewService().Overview()

	require.Len(t, o.Stats, 4)
	assert.Equal(t, "383 Million", o.Stats[0].Value)

	require.Len(t, o.UserGrowth.Points, 7)
	require.Len(t, o.Revenue.Points, 7)
	for i := range o.UserGrowth.Points {
		assert.Equal(t, o.UserGrowth.Points[i].Year, o.Revenue.Points[i].Year)
		if i > 0 {
			assert.Greater(t, o.Revenue.Points[i].Value, o.Revenue.Points[i-1].Value)
		}
	}
	assert.Equal(t, 113.5, o.Revenue.Points[6].Value)

	require.Len(t, o.Timeline, 4)
	assert.Equal(t, "2011", o.Timeline[0].Year)
	assert.Equal(t, "IPO", o.Timeline[3].Title)
}

func TestOverviewReturnsCopies(t *testing.T) {
	svc := NewService()
	first := svc.Overview()
	first.Timeline[0].Title = "changed"
	first.UserGrowth.Points[0].Value = -1

	second := svc.Overview()
	assert.Equal(t, "GIF Kuaishou", second.Timeline[0].Title)
	assert.Equal(t, float64(66), second.UserGrowth.Points[0].Value)
}
