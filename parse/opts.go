package parse

type parseOpts struct {
	file   string
	source int
}

type Option func(*parseOpts)

// WithFile records the source filename in each node's origin.
func WithFile(name string) Option {
	return func(o *parseOpts) {
		o.file = name
	}
}

// WithSource records the source's position in the build order in each
// node's origin.
func WithSource(i int) Option {
	return func(o *parseOpts) {
		o.source = i
	}
}

func newOpts(opts []Option) *parseOpts {
	res := &parseOpts{}
	for _, f := range opts {
		f(res)
	}
	return res
}
