package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cardwise/cardwise/internal/catalog"
	"github.com/cardwise/cardwise/internal/engine"
	"github.com/cardwise/cardwise/internal/profile"
	"github.com/cardwise/cardwise/store"
	"github.com/cardwise/cardwise/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "cardwise",
	Short: "Flashcard learning engine with spaced-repetition statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review activity for the configured course",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		session, closer, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer closer()

		fmt.Printf("course: %s\n", session.Course())
		fmt.Printf("lifetime swipes: %d\n", session.LifetimeSwipes(ctx))
		fmt.Printf("total card reviews: %d\n", session.TotalTimesReviewed(ctx))

		week := session.WeekActivity(ctx)
		fmt.Println("last 7 days (today first):")
		for day, count := range week {
			fmt.Printf("  day -%d: %d\n", day, count)
		}

		misses := session.ListRecentMisses(ctx, 7)
		if len(misses) > 0 {
			fmt.Println("recent misses:")
			for _, pick := range misses {
				fmt.Printf("  %s\n", pick.Card.Text)
			}
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset review statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		resetSwipes, _ := cmd.Flags().GetBool("swipes")
		resetCards, _ := cmd.Flags().GetBool("cards")
		resetActivity, _ := cmd.Flags().GetBool("activity")
		if !resetSwipes && !resetCards && !resetActivity {
			return fmt.Errorf("nothing to reset, pass --swipes, --cards and/or --activity")
		}

		session, closer, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer closer()

		if resetCards {
			session.ResetAllCards(ctx)
			fmt.Println("all card insights deleted")
		} else if resetSwipes {
			session.ResetSwipes(ctx)
			fmt.Println("card statistics reset")
		}
		if resetActivity {
			session.ResetActivity(ctx)
			fmt.Printf("activity counters reset for course %s\n", session.Course())
		}
		return nil
	},
}

// openSession builds a migrated store and an engine session for the
// configured course. The returned closer releases the database handle.
func openSession(ctx context.Context) (*engine.Session, func(), error) {
	instanceProfile := &profile.Profile{
		Mode:   viper.GetString("mode"),
		Data:   viper.GetString("data"),
		DSN:    viper.GetString("dsn"),
		Driver: viper.GetString("driver"),
		Course: viper.GetString("course"),
	}
	// Flag-resolved values win; FromEnv fills whatever viper left blank.
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	driver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	cardStore := store.New(driver, instanceProfile)
	if err := cardStore.Migrate(ctx); err != nil {
		_ = cardStore.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	loader := catalog.NewLoader(os.DirFS(instanceProfile.Data))
	session := engine.NewSession(cardStore, loader, nil)
	session.SwitchCourse(ctx, instanceProfile.Course)

	return session, func() { _ = cardStore.Close() }, nil
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the instance, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("data", "", "directory holding the database and course files")
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("course", "Swedish", "course to operate on")

	for _, key := range []string{"mode", "data", "dsn", "driver", "course"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("cardwise")
	viper.AutomaticEnv()

	resetCmd.Flags().Bool("swipes", false, "zero every card's counters and learning state, keeping notes and favorites")
	resetCmd.Flags().Bool("cards", false, "delete every card's statistics row outright")
	resetCmd.Flags().Bool("activity", false, "reset the course's activity window and lifetime total")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
