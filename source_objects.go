package main

import "fmt"

// SourceObjects lists the dump's views, triggers and explicit indexes. Only
// tables are recreated in MySQL.
type SourceObjects struct {
	Views    []string
	Triggers []string
	Indexes  []string
}

// Empty reports whether the dump defines nothing beyond tables.
func (o *SourceObjects) Empty() bool {
	return o == nil || len(o.Views)+len(o.Triggers)+len(o.Indexes) == 0
}

// sourceObjectWarnings returns a summary line followed by one line per object.
func sourceObjectWarnings(objs *SourceObjects) []string {
	if objs.Empty() {
		return nil
	}

	warnings := []string{fmt.Sprintf(
		"dump contains non-table objects not migrated automatically (%d views, %d triggers, %d indexes); recreate them with an after_all hook",
		len(objs.Views), len(objs.Triggers), len(objs.Indexes),
	)}
	for _, group := range []struct {
		kind  string
		names []string
	}{
		{"view", objs.Views},
		{"trigger", objs.Triggers},
		{"index", objs.Indexes},
	} {
		for _, name := range group.names {
			warnings = append(warnings, group.kind+": "+name)
		}
	}
	return warnings
}
