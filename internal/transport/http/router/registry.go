package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Module mounts its routes. public has no auth; private runs AuthJWT first.
type Module interface {
	Mount(public, private *gin.RouterGroup)
}

// Modules implementing prioritizer mount in ascending order; the rest
// default to 100.
type prioritizer interface{ Priority() int }

// MountAll mounts mods in priority order, keeping the given order for ties.
func MountAll(public, private *gin.RouterGroup, mods ...Module) {
	mods = append([]Module(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(public, private)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
