package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectorLines(t *testing.T) {
	lines := inspectorLines("demo", []string{"ramp@3,4", "ice"}, 2, 120, true, false)
	assert.Equal(t, []string{
		"stage: demo",
		"cells: 120  hazards: 2  slopes: 2",
		"debug overlay: on  hot reload: off",
		"  ramp@3,4",
		"  ice",
	}, lines)
}

func TestInspectorLinesTruncatesLongSlopeLists(t *testing.T) {
	var names []string
	for i := range maxListedSlopes + 3 {
		names = append(names, fmt.Sprintf("s%d", i))
	}
	lines := inspectorLines("dunes", names, 0, 0, false, true)
	require.Len(t, lines, 3+maxListedSlopes+1)
	assert.Equal(t, "  s0", lines[3])
	assert.Equal(t, "  ... and 3 more", lines[len(lines)-1])
	assert.Equal(t, "debug overlay: off  hot reload: on", lines[2])
}
