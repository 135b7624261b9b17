package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/movielist/internal/validate"
	"github.com/mesh-intelligence/movielist/pkg/types"
)

const deletePrompt = "Are you sure you want to delete this movie? (Y/N): "

// listChoice is the outcome of a numbered list screen.
type listChoice int

const (
	choiceHome listChoice = iota
	choiceMovie
	choiceInvalid
)

// chooseFromList reloads the user's movies, shows them numbered and reads
// a selection.
func (s *Session) chooseFromList(heading, instruction string) (types.Movie, listChoice, error) {
	fmt.Fprintf(s.out, "\n--- %s ---\n", heading)
	movies, err := s.movies.ListForUser(s.username)
	if err != nil {
		return types.Movie{}, choiceHome, err
	}
	if len(movies) == 0 {
		fmt.Fprint(s.out, "No movies found.\n\n")
		return types.Movie{}, choiceHome, nil
	}

	fmt.Fprintln(s.out, renderList(movies))
	fmt.Fprintf(s.out, "\n%s\n", instruction)
	choice, err := s.prompt.askLower("Your choice: ")
	if err != nil {
		return types.Movie{}, choiceHome, err
	}
	if choice == "b" || choice == "back" {
		fmt.Fprintln(s.out)
		return types.Movie{}, choiceHome, nil
	}
	if n, ok := parseIndex(choice, len(movies)); ok {
		return movies[n-1], choiceMovie, nil
	}
	notice(s.out, "Invalid input. Please enter a valid movie number or B.")
	return types.Movie{}, choiceInvalid, nil
}

// parseIndex accepts a 1-based position written in ASCII digits.
func parseIndex(choice string, n int) (int, bool) {
	if choice == "" {
		return 0, false
	}
	for i := 0; i < len(choice); i++ {
		if choice[i] < '0' || choice[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > n {
		return 0, false
	}
	return idx, true
}

func (s *Session) viewList() (State, error) {
	m, choice, err := s.chooseFromList("View Movies", "Enter a movie number to view details, or B to go back to Home.")
	if err != nil {
		return StateHome, err
	}
	switch choice {
	case choiceMovie:
		s.selected = m
		return StateDetails, nil
	case choiceInvalid:
		return StateViewList, nil
	default:
		return StateHome, nil
	}
}

func (s *Session) details() (State, error) {
	printDetails(s.out, s.selected)
	fmt.Fprintln(s.out, "Options: [E] Edit   [D] Delete   [Enter] Back to movie list")
	sub, err := s.prompt.askLower("Your choice: ")
	if err != nil {
		return StateQuit, err
	}

	switch sub {
	case "", "b", "back":
		return StateViewList, nil
	case "d", "del", "delete":
		ok, err := s.prompt.confirm(deletePrompt)
		if err != nil {
			return StateQuit, err
		}
		if !ok {
			notice(s.out, "Delete canceled.")
			return StateDetails, nil
		}
		return StateViewList, s.deleteMovie(s.selected)
	case "e", "edit":
		return StateEdit, nil
	}
	notice(s.out, "Invalid input. Type E to edit, D to delete, or press Enter to go back.")
	return StateDetails, nil
}

// deleteMovie removes m and reports the outcome. Only storage failures
// are returned.
func (s *Session) deleteMovie(m types.Movie) error {
	err := s.movies.Delete(s.username, m)
	switch {
	case err == nil:
		s.log.WithField("title", m.Title).Info("movie deleted")
		notice(s.out, "Deleted successfully.")
		return nil
	case errors.Is(err, types.ErrNotFound):
		s.log.WithField("title", m.Title).Info("delete target not found")
		notice(s.out, "Delete failed: movie not found.")
		return nil
	default:
		return err
	}
}

// editCheck runs check and replaces its rejection with msg.
func editCheck(field, msg string, check func(string) (string, error)) func(string) (string, error) {
	return func(v string) (string, error) {
		out, err := check(v)
		if err != nil {
			return "", &types.ValidationError{Field: field, Message: msg}
		}
		return out, nil
	}
}

var (
	editRating = editCheck(validate.FieldRating,
		fmt.Sprintf("Invalid rating. Enter %.1f-%.1f.", validate.MinRating, validate.MaxRating), validate.Rating)
	editYear = editCheck(validate.FieldYear,
		fmt.Sprintf("Invalid year. Enter %d-%d.", validate.MinYear, validate.MaxYear), validate.Year)
	editWatched = editCheck(validate.FieldWatched,
		"Invalid watched value. Enter Y or N.", validate.Watched)
)

// editField shows the current value and keeps it on empty input.
func (s *Session) editField(label, current string, check func(string) (string, error)) (string, error) {
	for {
		v, err := s.prompt.ask(fmt.Sprintf("%s [%s] (press Enter to keep): ", label, orDash(current)))
		if err != nil {
			return "", err
		}
		if v == "" {
			return current, nil
		}
		if check == nil {
			return v, nil
		}
		out, err := check(v)
		if err == nil {
			return out, nil
		}
		fmt.Fprintln(s.out, err.Error())
	}
}

func (s *Session) edit() (State, error) {
	fmt.Fprintln(s.out, "\n--- Edit Movie ---")
	fmt.Fprint(s.out, "Tip: Press Enter to keep the current value.\n\n")

	current := s.selected
	updated := types.Movie{Username: s.username}
	fields := []struct {
		label   string
		current string
		dst     *string
		check   func(string) (string, error)
	}{
		{"Movie name", current.Title, &updated.Title, nil},
		{"Director", current.Director, &updated.Director, nil},
		{"Genre", current.Genre, &updated.Genre, nil},
		{"Rating (0-10)", current.Rating, &updated.Rating, editRating},
		{"Year", current.Year, &updated.Year, editYear},
		{"Watched (Y/N)", current.Watched, &updated.Watched, editWatched},
	}
	for _, f := range fields {
		v, err := s.editField(f.label, f.current, f.check)
		if err != nil {
			return StateQuit, err
		}
		*f.dst = v
	}

	save, err := s.prompt.confirm("Save changes? (Y/N): ")
	if err != nil {
		return StateQuit, err
	}
	if !save {
		notice(s.out, "Edit canceled.")
		return StateDetails, nil
	}

	// Values kept from the file may not pass validation.
	clean, err := validate.Movie(updated)
	if err != nil {
		notice(s.out, err.Error())
		return StateDetails, nil
	}
	err = s.movies.Update(s.username, current, clean)
	switch {
	case err == nil:
		s.log.WithField("title", clean.Title).Info("movie updated")
		notice(s.out, "Updated successfully.")
		s.selected = clean
	case errors.Is(err, types.ErrNotFound):
		s.log.WithField("title", current.Title).Info("update target not found")
		notice(s.out, "Update failed: movie not found.")
	default:
		return StateDetails, err
	}
	return StateDetails, nil
}

func (s *Session) add() (State, error) {
	fmt.Fprintln(s.out, "\n--- Add Movie ---")

	var m types.Movie
	var err error
	if m.Title, err = s.prompt.askValid("Movie name (required): ", validate.RequiredText); err != nil {
		return StateQuit, err
	}
	if m.Director, err = s.prompt.ask("Director (optional): "); err != nil {
		return StateQuit, err
	}
	if m.Genre, err = s.prompt.ask("Genre (optional): "); err != nil {
		return StateQuit, err
	}
	if m.Rating, err = s.prompt.askValid("Rating 0-10 (optional): ", validate.Rating); err != nil {
		return StateQuit, err
	}
	if m.Year, err = s.prompt.askValid("Year (optional): ", validate.Year); err != nil {
		return StateQuit, err
	}
	if m.Watched, err = s.prompt.askValid("Watched? (Y/N, required): ", validate.Watched); err != nil {
		return StateQuit, err
	}

	if err := s.movies.Add(s.username, m); err != nil {
		return StateHome, err
	}
	s.log.WithField("title", m.Title).Info("movie added")
	notice(s.out, "Movie added successfully.")
	return StateHome, nil
}

func (s *Session) deleteList() (State, error) {
	m, choice, err := s.chooseFromList("Delete Movie", "Enter a movie number to delete, or B to go back to Home.")
	if err != nil {
		return StateHome, err
	}
	switch choice {
	case choiceHome:
		return StateHome, nil
	case choiceInvalid:
		return StateDeleteList, nil
	}

	printDetails(s.out, m)
	ok, err := s.prompt.confirm(deletePrompt)
	if err != nil {
		return StateQuit, err
	}
	if !ok {
		notice(s.out, "Delete canceled.")
		return StateHome, nil
	}
	return StateHome, s.deleteMovie(m)
}
