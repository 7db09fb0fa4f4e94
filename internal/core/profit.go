package core

// NetProfit derives the running daily profit estimate. dailySales is part of
// the input surface but does not participate in the formula; only the
// user-entered profit figure is offset by expenses.
func NetProfit(dailySales, dailyProfit, totalDailyExpenses float64) float64 {
	_ = dailySales
	return dailyProfit - totalDailyExpenses
}
