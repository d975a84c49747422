package sanitizer

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	Name   = Pipeline{TrimAndNormalize}
	Email  = Pipeline{TrimAndNormalize, Lower}
	Status = Pipeline{TrimAndNormalize, Lower}
)
