// Package factory instantiates pluggable modules (snapshot stores, metrics
// sinks) from configuration. A module is named by a type string and carries
// a map of raw settings that its factory decodes into a typed struct.
//
//	reg := factory.NewRegistry[snapshot.Store]()
//	reg.Register("csv", func(conf map[string]any) (snapshot.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return snapshot.NewCSVStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "csv", Conf: map[string]any{"path": "out.csv"}})
package factory
