// Package deadline считает календарные интервалы для сроков приёма заявок и платных периодов.
package deadline

import "time"

// DaysUntil возвращает число календарных дней от now до end в часовом поясе loc.
// Время суток не учитывается: заявка, заканчивающаяся сегодня, даёт 0, вчера — -1.
func DaysUntil(now, end time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	n := dateOf(now.In(loc))
	e := dateOf(end.In(loc))
	return int(e.Sub(n).Hours() / 24)
}

// WindowDays возвращает длину окна приёма в днях, включая оба конца.
// Если одна из дат неизвестна, ok = false.
func WindowDays(start, end *time.Time) (days int, ok bool) {
	if start == nil || end == nil {
		return 0, false
	}
	return DaysUntil(*start, *end, time.UTC) + 1, true
}

// AddMonths сдвигает t на months месяцев. Если в целевом месяце нет такого дня,
// берётся последний день месяца (31 января + 1 месяц = 28/29 февраля).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
