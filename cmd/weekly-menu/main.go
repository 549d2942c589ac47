package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"weekly-menu/internal/app"
	"weekly-menu/internal/config"
	"weekly-menu/internal/logging"
	"weekly-menu/internal/planner"
	"weekly-menu/internal/recipe"
	"weekly-menu/internal/shopping"
	"weekly-menu/internal/user"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	if err := run(ctx, application, os.Args[1], os.Args[2:]); err != nil {
		application.Close()
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func run(ctx context.Context, a *app.App, cmd string, args []string) error {
	switch cmd {
	case "seed-recipes":
		n, err := a.SeedRecipes(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d recipes.\n", n)

	case "generate-recipes":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		count := fs.Int("n", recipe.DefaultGenerateCount, "Number of recipes to generate")
		fs.Parse(args)

		recipes, err := a.GenerateRecipes(ctx, *count)
		if err != nil {
			return err
		}
		for _, r := range recipes {
			fmt.Printf("- %s (%s)\n", r.Title, r.ID)
		}

	case "import-recipe":
		if len(args) != 1 {
			return errors.New("usage: import-recipe <url>")
		}
		rec, err := a.ImportRecipe(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %q as %s.\n", rec.Title, rec.ID)

	case "plan-week":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		userID, week := userFlags(fs)
		fs.Parse(args)

		u, err := resolveUser(ctx, a, *userID)
		if err != nil {
			return err
		}
		plan, err := a.GenerateWeekPlan(ctx, u, *week)
		if err != nil && !errors.Is(err, planner.ErrNotSynced) {
			return err
		}
		fmt.Printf("Planned %d meals for the week of %s.\n", len(plan.Meals), plan.WeekStart)

	case "shopping-list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		userID, week := userFlags(fs)
		generate := fs.Bool("generate", false, "Rebuild the list from the week's meal plan")
		fs.Parse(args)

		u, err := resolveUser(ctx, a, *userID)
		if err != nil {
			return err
		}
		var list *shopping.ShoppingList
		if *generate {
			list, err = a.GenerateShoppingList(ctx, u, *week)
		} else {
			list, err = a.Shopping.Current(ctx, u.ID, *week)
		}
		if err != nil && !errors.Is(err, shopping.ErrNotPersisted) {
			return err
		}
		fmt.Print(shopping.Render(list))
		if err != nil {
			fmt.Println("Warning: the list could not be stored.")
		}

	case "issue-token":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		userID := fs.String("user", "", "User ID (subject)")
		email := fs.String("email", "", "User email")
		ttl := fs.Duration("ttl", 30*24*time.Hour, "Token lifetime")
		fs.Parse(args)
		if *userID == "" {
			return errors.New("-user is required")
		}

		token, err := a.Auth.IssueToken(&user.User{ID: *userID, Email: *email}, *ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)

	case "usage":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		days := fs.Int("days", 7, "Number of days to report")
		fs.Parse(args)

		usage, err := a.Metrics.GetDailyUsage(ctx, *days)
		if err != nil {
			return err
		}
		for _, d := range usage {
			fmt.Printf("%s  prompt=%d completion=%d calls=%d\n", d.Date, d.TotalPrompt, d.TotalCompletion, d.TotalExecution)
		}

	case "metrics-cleanup":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		days := fs.Int("days", 30, "Keep records for the last N days")
		fs.Parse(args)

		affected, err := a.Metrics.Cleanup(ctx, *days)
		if err != nil {
			return err
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func userFlags(fs *flag.FlagSet) (userID, week *string) {
	userID = fs.String("user", "", "User ID")
	week = fs.String("week", planner.FormatDate(planner.WeekStart(time.Now())), "Any date of the target week (YYYY-MM-DD)")
	return userID, week
}

func resolveUser(ctx context.Context, a *app.App, id string) (*user.User, error) {
	if id == "" {
		return nil, errors.New("-user is required")
	}
	return a.Auth.Resolve(ctx, id, "", "")
}

func printUsage() {
	fmt.Println("Usage: weekly-menu <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  seed-recipes       Store the built-in recipes when the catalogue is empty")
	fmt.Println("  generate-recipes   Ask the LLM for new recipes (-n)")
	fmt.Println("  import-recipe      Import a recipe from a web page")
	fmt.Println("  plan-week          Fill a week with random recipes (-user, -week)")
	fmt.Println("  shopping-list      Print a user's shopping list (-user, -week, -generate)")
	fmt.Println("  issue-token        Sign an API token (-user, -email, -ttl)")
	fmt.Println("  usage              Show daily LLM token usage (-days)")
	fmt.Println("  metrics-cleanup    Remove old metric records (-days)")
}
