package app

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/swaggo/swag"
)

// swag keeps registered documents for the life of the process and offers no
// way to remove one. Instance names are therefore pooled: an Application
// binds a name while mounted and hands it back on Shutdown, so the registry
// grows to the peak number of live Applications, not the total ever built.
var swagSlots = struct {
	mu    sync.Mutex
	free  []string
	bound map[string]*Application
}{bound: make(map[string]*Application)}

// acquireSwagInstance binds a swag instance name to a.
func acquireSwagInstance(a *Application) string {
	swagSlots.mu.Lock()
	defer swagSlots.mu.Unlock()

	var name string
	if n := len(swagSlots.free); n > 0 {
		name = swagSlots.free[n-1]
		swagSlots.free = swagSlots.free[:n-1]
	} else {
		name = "apidocs-" + uuid.NewString()
		swag.Register(name, swagSlot(name))
	}
	swagSlots.bound[name] = a
	return name
}

// releaseSwagInstance unbinds a's instance name. It is a shutdown hook and
// safe to run more than once.
func (a *Application) releaseSwagInstance(context.Context) error {
	swagSlots.mu.Lock()
	defer swagSlots.mu.Unlock()

	if swagSlots.bound[a.swagInstance] != a {
		return nil
	}
	delete(swagSlots.bound, a.swagInstance)
	swagSlots.free = append(swagSlots.free, a.swagInstance)
	return nil
}

// swagSlot is the swag.Swagger registered under one pooled name. It serves
// the document of whichever Application currently holds the name.
type swagSlot string

func (s swagSlot) ReadDoc() string {
	swagSlots.mu.Lock()
	a := swagSlots.bound[string(s)]
	swagSlots.mu.Unlock()
	if a == nil {
		return "{}"
	}

	doc, err := a.OpenAPI()
	if err != nil {
		a.Logger.Error("schema generation failed", "error", err)
		return "{}"
	}
	b, err := json.Marshal(doc)
	if err != nil {
		a.Logger.Error("schema encoding failed", "error", err)
		return "{}"
	}
	return string(b)
}
