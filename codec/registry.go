package codec

import "sync"

// Registry manages the available codecs
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
	order  []string
}

var defaultRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register registers a codec with the default registry
func Register(codec Codec) {
	defaultRegistry.Register(codec)
}

// Get retrieves a codec by name from the default registry
func Get(name string) (Codec, error) {
	return defaultRegistry.Get(name)
}

// Sniff finds a codec whose Detect accepts data in the default registry
func Sniff(data []byte) (Codec, error) {
	return defaultRegistry.Sniff(data)
}

// List returns all codecs in the default registry
func List() []Codec {
	return defaultRegistry.List()
}

// Register registers a codec under its name
func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codecs[codec.Name()]; !ok {
		r.order = append(r.order, codec.Name())
	}
	r.codecs[codec.Name()] = codec
}

// Get retrieves a codec by name
func (r *Registry) Get(name string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[name]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return codec, nil
}

// Sniff returns the first registered codec that recognizes data
func (r *Registry) Sniff(data []byte) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if c := r.codecs[name]; c.Detect(data) {
			return c, nil
		}
	}
	return nil, ErrUnknownFormat
}

// List returns all registered codecs in registration order
func (r *Registry) List() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codecs := make([]Codec, 0, len(r.order))
	for _, name := range r.order {
		codecs = append(codecs, r.codecs[name])
	}
	return codecs
}
