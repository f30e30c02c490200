package cache

import (
	"sync"
	"time"
)

type item struct {
	value      interface{}
	expiration int64
}

// QueryCache memoiza resultados de listado por clave de filtro durante una
// ventana corta. Es el único estado mutable compartido entre requests, así
// que todo acceso pasa por el RWMutex.
type QueryCache struct {
	items map[string]item
	mu    sync.RWMutex
	ttl   time.Duration
}

// New crea un caché con el TTL dado.
func New(ttl time.Duration) *QueryCache {
	return &QueryCache{
		items: make(map[string]item),
		ttl:   ttl,
	}
}

// Set guarda un valor bajo la clave con la expiración del TTL.
func (c *QueryCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		value:      value,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	}
}

// Get devuelve el valor si existe y no expiró.
func (c *QueryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found {
		return nil, false
	}
	if time.Now().UnixNano() > it.expiration {
		return nil, false
	}
	return it.value, true
}

// Invalidate descarta todas las entradas. Se llama tras cada mutación de
// producto; una lectura que corra contra la invalidación recomputa.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
}

// Size retorna el número de entradas (incluidas las expiradas aún no leídas).
func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
