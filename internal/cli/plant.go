package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantcare/internal/cache"
	"github.com/mesh-intelligence/plantcare/pkg/types"
)

func newPlantCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plant",
		Short: "Add, inspect and change plants",
	}
	cmd.AddCommand(
		newPlantAddCmd(a),
		newPlantGetCmd(a),
		newPlantListCmd(a),
		newPlantUpdateCmd(a),
		newPlantDeleteCmd(a),
		newPlantSearchCmd(a),
		newPlantPageCmd(a),
		newPlantCountCmd(a),
	)
	return cmd
}

// requirePlant loads a plant or returns a user error if it does not exist.
func (a *app) requirePlant(cmd *cobra.Command, id string) (*types.Plant, error) {
	p, err := a.store.GetPlant(ctx(cmd), id)
	if err != nil {
		return nil, sysError(err)
	}
	if p == nil {
		return nil, userError(fmt.Errorf("plant %s not found", id))
	}
	return p, nil
}

// loadPlants reads the plant list through the cache. A degraded read is
// reported and yields an empty list.
func (a *app) loadPlants(cmd *cobra.Command) ([]types.Plant, error) {
	c := cache.New(a.store, a.logger)
	if err := c.Initialize(ctx(cmd)); err != nil {
		return nil, sysError(err)
	}
	s := c.Snapshot()
	if s.Err != "" {
		warnDegraded(cmd, errors.New(s.Err))
	}
	return s.Plants, nil
}

func (a *app) showPlants(cmd *cobra.Command, plants []types.Plant) error {
	if a.jsonOut {
		return a.printJSON(cmd, plants)
	}
	printPlants(cmd.OutOrStdout(), plants)
	return nil
}

func newPlantAddCmd(a *app) *cobra.Command {
	var (
		name, species, notes, image, added string
		frequency                          int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a plant",
		Example: `  plantcare plant add --name Fern --species "Boston Fern" --every 3
  plantcare plant add --name Monstera --species "Monstera deliciosa" --every 7 --image file:///photos/m.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frequency < 0 {
				return userError(errors.New("--every must not be negative"))
			}
			p := types.Plant{
				Name:              name,
				Species:           species,
				AddedDate:         added,
				WateringFrequency: frequency,
				Notes:             notes,
			}
			if p.AddedDate == "" {
				p.AddedDate = types.Timestamp(a.now())
			}
			if image != "" {
				p.ImageThumb = types.Ptr(image)
			}

			saved, err := a.store.AddPlant(ctx(cmd), p)
			if err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, saved)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added plant: %s\n", saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "plant name (required)")
	cmd.Flags().StringVar(&species, "species", "", "species (required)")
	cmd.Flags().IntVar(&frequency, "every", 7, "watering frequency in days")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringVar(&image, "image", "", "photo file URI")
	cmd.Flags().StringVar(&added, "added", "", "date added, ISO-8601 (default now)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("species")
	return cmd
}

func newPlantGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <plant-id>",
		Short: "Show one plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.requirePlant(cmd, args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(cmd, p)
			}
			printPlant(cmd.OutOrStdout(), *p)
			return nil
		},
	}
}

func newPlantListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all plants, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plants, err := a.loadPlants(cmd)
			if err != nil {
				return err
			}
			return a.showPlants(cmd, plants)
		},
	}
}

func newPlantUpdateCmd(a *app) *cobra.Command {
	var (
		name, species, notes, image, added, watered string
		frequency                                   int
		clearImage, clearWatered                    bool
	)
	cmd := &cobra.Command{
		Use:   "update <plant-id>",
		Short: "Change plant fields",
		Long:  "Update sets only the fields whose flags are given.",
		Example: `  plantcare plant update 0190... --every 5
  plantcare plant update 0190... --clear-image`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var patch types.PlantPatch
			if f.Changed("name") {
				patch.Name = types.Ptr(name)
			}
			if f.Changed("species") {
				patch.Species = types.Ptr(species)
			}
			if f.Changed("added") {
				patch.AddedDate = types.Ptr(added)
			}
			if f.Changed("every") {
				if frequency < 0 {
					return userError(errors.New("--every must not be negative"))
				}
				patch.WateringFrequency = types.Ptr(frequency)
			}
			if f.Changed("notes") {
				patch.Notes = types.Ptr(notes)
			}
			switch {
			case clearImage && f.Changed("image"):
				return userError(errors.New("--image and --clear-image conflict"))
			case clearImage:
				patch.ImageThumb = types.Null()
			case f.Changed("image"):
				patch.ImageThumb = types.NullOf(image)
			}
			switch {
			case clearWatered && f.Changed("watered"):
				return userError(errors.New("--watered and --clear-watered conflict"))
			case clearWatered:
				patch.LastWateredDate = types.Null()
			case f.Changed("watered"):
				patch.LastWateredDate = types.NullOf(watered)
			}

			if _, err := a.requirePlant(cmd, args[0]); err != nil {
				return err
			}
			if err := a.store.UpdatePlant(ctx(cmd), args[0], patch); err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				p, err := a.requirePlant(cmd, args[0])
				if err != nil {
					return err
				}
				return a.printJSON(cmd, p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated plant: %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "plant name")
	cmd.Flags().StringVar(&species, "species", "", "species")
	cmd.Flags().IntVar(&frequency, "every", 0, "watering frequency in days")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringVar(&image, "image", "", "photo file URI")
	cmd.Flags().BoolVar(&clearImage, "clear-image", false, "remove the photo")
	cmd.Flags().StringVar(&added, "added", "", "date added, ISO-8601")
	cmd.Flags().StringVar(&watered, "watered", "", "last watered date, ISO-8601")
	cmd.Flags().BoolVar(&clearWatered, "clear-watered", false, "forget the last watering date")
	return cmd
}

func newPlantDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plant-id>",
		Short: "Delete a plant and all of its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requirePlant(cmd, args[0]); err != nil {
				return err
			}
			if err := a.store.DeletePlant(ctx(cmd), args[0]); err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plant: %s\n", args[0])
			return nil
		},
	}
}

func newPlantSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find plants by name or species",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plants, err := a.store.SearchPlants(ctx(cmd), strings.Join(args, " "))
			warnDegraded(cmd, err)
			return a.showPlants(cmd, plants)
		},
	}
}

func newPlantPageCmd(a *app) *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "page",
		Short: "List one page of plants",
		Example: `  plantcare plant page
  plantcare plant page --page 2 --size 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return userError(errors.New("--page starts at 1"))
			}
			if size <= 0 {
				size = a.settings.PageSize
			}
			offset := (page - 1) * size

			plants, err := a.store.GetPlantsPaginated(ctx(cmd), offset, size)
			warnDegraded(cmd, err)
			total, err := a.store.GetPlantsCount(ctx(cmd))
			warnDegraded(cmd, err)

			if a.jsonOut {
				return a.printJSON(cmd, map[string]any{
					"page":   page,
					"size":   size,
					"total":  total,
					"plants": plants,
				})
			}
			printPlants(cmd.OutOrStdout(), plants)
			if len(plants) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Showing %d-%d of %d\n", offset+1, offset+len(plants), total)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 0, "plants per page (default page_size from config)")
	return cmd
}

func newPlantCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of plants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.store.GetPlantsCount(ctx(cmd))
			warnDegraded(cmd, err)
			if a.jsonOut {
				return a.printJSON(cmd, map[string]int{"count": n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
