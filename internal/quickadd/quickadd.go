// Package quickadd turns free-form text such as "Buy milk high priority
// #shopping today" into task fields.
package quickadd

import (
	"regexp"
	"strings"
	"time"

	"quickdo/internal/task"
)

var (
	priorityRe = regexp.MustCompile(`(?i)(high|medium|low) priority`)
	hashtagRe  = regexp.MustCompile(`#(\w+)`)
	todayRe    = regexp.MustCompile(`(?i)today`)
	tomorrowRe = regexp.MustCompile(`(?i)tomorrow`)
)

type Result struct {
	Title    string
	Priority task.Priority
	Category string
	DueDate  string
	Tags     []string
}

// Parse applies the rules in order, each removing what it matched from the
// working title:
//
//  1. "<high|medium|low> priority" sets the priority
//  2. the first #word sets the category (lowercased) and is also kept as a tag
//  3. every other #word becomes a tag
//  4. "today" sets the due date to now's date
//  5. "tomorrow" sets it to the next day, winning over "today"
func Parse(text string, now time.Time) Result {
	r := Result{
		Priority: task.PriorityMedium,
		Category: task.DefaultCategory,
		Tags:     []string{},
	}
	work := text

	if m := priorityRe.FindStringSubmatchIndex(work); m != nil {
		r.Priority = task.Priority(strings.ToLower(work[m[2]:m[3]]))
		work = work[:m[0]] + work[m[1]:]
	}

	if m := hashtagRe.FindStringSubmatchIndex(work); m != nil {
		word := work[m[2]:m[3]]
		r.Category = strings.ToLower(word)
		r.Tags = append(r.Tags, word)
		work = work[:m[0]] + work[m[1]:]
	}

	for _, m := range hashtagRe.FindAllStringSubmatch(work, -1) {
		r.Tags = append(r.Tags, m[1])
	}
	work = hashtagRe.ReplaceAllString(work, "")
	r.Tags = task.NormalizeTags(r.Tags)

	if todayRe.MatchString(work) {
		r.DueDate = task.FormatDate(now)
		work = todayRe.ReplaceAllString(work, "")
	}
	if tomorrowRe.MatchString(work) {
		r.DueDate = task.FormatDate(now.AddDate(0, 0, 1))
		work = tomorrowRe.ReplaceAllString(work, "")
	}

	r.Title = strings.Join(strings.Fields(work), " ")
	return r
}

func (r Result) Draft() task.Draft {
	return task.Draft{
		Title:    r.Title,
		Priority: r.Priority,
		Category: r.Category,
		DueDate:  r.DueDate,
		Tags:     append([]string(nil), r.Tags...),
	}
}
