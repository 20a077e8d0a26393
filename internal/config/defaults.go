package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

const defaultHelp = "Hi! I total ABA-style amounts in this group.\n\n" +
	"Commands:\n" +
	"/today – totals for today\n" +
	"/month – totals for this month\n" +
	"/shift 1 | 2 | HH:MM HH:MM – totals for a shift or custom time today\n" +
	"/exportcsv – export this month to CSV\n" +
	"/setsource @username – only count messages from this sender\n" +
	"/reset_today – admin only; clears today’s records"

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Asia/Phnom_Penh")
	v.SetDefault("telegram.owner_user_id", 0)

	v.SetDefault("database.path", "aba_totals.sqlite")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("scheduler.tasks", map[string]any{
		"sql_maintenance": map[string]any{
			"enabled":  true,
			"schedule": "0 30 4 * * *",
		},
	})

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "aba_totals")
	v.SetDefault("amqp.routing_key", "transactions.recorded")

	v.SetDefault("messages.help", defaultHelp)
	v.SetDefault("messages.general_error", "Something went wrong, please try again later.")
	v.SetDefault("messages.not_authorized", "Only chat admins can use this command.")
	v.SetDefault("messages.reset_confirm", "Cleared %d record(s) for today.")
	v.SetDefault("messages.setsource_usage", "Usage: /setsource @username")
	v.SetDefault("messages.setsource_confirm", "Now counting only messages from %s.")
	v.SetDefault("messages.export_caption", "Transactions for %s")
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
