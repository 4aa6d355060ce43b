package model

// Sample is one labelled value of a MetricFamily.
type Sample struct {
	LabelValues []string
	Value       float64
}

// MetricFamily is a named group of gauge samples sharing one label schema.
type MetricFamily struct {
	Name    string
	Help    string
	Labels  []string
	Samples []Sample
}

// Add appends a sample. Label values must line up with Labels.
func (f *MetricFamily) Add(value float64, labelValues ...string) {
	f.Samples = append(f.Samples, Sample{LabelValues: labelValues, Value: value})
}
