package domain

// JobType names one of the engine operations. The values are the task names
// accepted on the command line and stamped on every result.
type JobType string

const (
	JobOverview       JobType = "overview"
	JobDescAdditions  JobType = "desc-add"
	JobDescInactivate JobType = "desc-inact"
	JobFullDelta      JobType = "translate-delta"
	JobEszettCheck    JobType = "eszett-check"
	JobNotPublished   JobType = "not-published"
)

func (j JobType) String() string { return string(j) }

func (j JobType) IsValid() bool {
	switch j {
	case JobOverview, JobDescAdditions, JobDescInactivate, JobFullDelta, JobEszettCheck, JobNotPublished:
		return true
	}
	return false
}

// NeedsCurrentFile reports whether the job ingests the current term file.
func (j JobType) NeedsCurrentFile() bool { return j != JobEszettCheck }

// NeedsPreviousFile reports whether the job ingests the previous term file.
func (j JobType) NeedsPreviousFile() bool { return j == JobNotPublished }

// NeedsDatabase reports whether the job queries the terminology store.
func (j JobType) NeedsDatabase() bool { return j != JobOverview }

// AllJobTypes returns every job in presentation order.
func AllJobTypes() []JobType {
	return []JobType{JobOverview, JobDescAdditions, JobDescInactivate, JobFullDelta, JobEszettCheck, JobNotPublished}
}

// Category is the delta category a record is classified into.
type Category string

const (
	CategoryAddition     Category = "ADDITION"
	CategoryChange       Category = "CHANGE"
	CategoryInactivation Category = "INACTIVATION"
	CategoryReactivation Category = "REACTIVATION"
	CategoryNotPublished Category = "NOT_PUBLISHED"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryAddition, CategoryChange, CategoryInactivation, CategoryReactivation, CategoryNotPublished:
		return true
	}
	return false
}

// Release tags which snapshot a term file represents.
type Release string

const (
	ReleaseCurrent  Release = "current"
	ReleasePrevious Release = "previous"
)

func (r Release) String() string { return string(r) }

func (r Release) IsValid() bool {
	return r == ReleaseCurrent || r == ReleasePrevious
}

// Severity of a diagnostic log entry.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

func (s Severity) String() string { return string(s) }
