package app

import (
	"context"
	"fmt"

	notesHTTP "github.com/allisson/chatapi/internal/notes/http"
	notesRepository "github.com/allisson/chatapi/internal/notes/repository"
	notesUseCase "github.com/allisson/chatapi/internal/notes/usecase"
)

// NoteRepository returns the note repository.
func (c *Container) NoteRepository(ctx context.Context) (notesUseCase.NoteRepository, error) {
	var err error
	c.noteRepoInit.Do(func() {
		c.noteRepo, err = c.initNoteRepository(ctx)
		if err != nil {
			c.initErrors["noteRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["noteRepo"]; exists {
		return nil, storedErr
	}
	return c.noteRepo, nil
}

// NoteUseCase returns the note use case.
func (c *Container) NoteUseCase(ctx context.Context) (notesUseCase.NoteUseCase, error) {
	var err error
	c.noteUseCaseInit.Do(func() {
		c.noteUseCase, err = c.initNoteUseCase(ctx)
		if err != nil {
			c.initErrors["noteUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["noteUseCase"]; exists {
		return nil, storedErr
	}
	return c.noteUseCase, nil
}

// NoteHandler returns the notes HTTP handler.
func (c *Container) NoteHandler(ctx context.Context) (*notesHTTP.NoteHandler, error) {
	var err error
	c.noteHandlerInit.Do(func() {
		c.noteHandler, err = c.initNoteHandler(ctx)
		if err != nil {
			c.initErrors["noteHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["noteHandler"]; exists {
		return nil, storedErr
	}
	return c.noteHandler, nil
}

// initNoteRepository creates the note repository for the configured database driver.
func (c *Container) initNoteRepository(ctx context.Context) (notesUseCase.NoteRepository, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database for note repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return notesRepository.NewMySQLNoteRepository(db), nil
	case "postgres":
		return notesRepository.NewPostgreSQLNoteRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initNoteUseCase creates the note use case with metrics decoration.
func (c *Container) initNoteUseCase(ctx context.Context) (notesUseCase.NoteUseCase, error) {
	noteRepo, err := c.NoteRepository(ctx)
	if err != nil {
		return nil, err
	}

	envelope, err := c.Envelope()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := notesUseCase.NewNoteUseCase(noteRepo, envelope, c.Logger())

	return notesUseCase.NewNoteUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initNoteHandler creates the notes handler.
func (c *Container) initNoteHandler(ctx context.Context) (*notesHTTP.NoteHandler, error) {
	noteUseCase, err := c.NoteUseCase(ctx)
	if err != nil {
		return nil, err
	}

	return notesHTTP.NewNoteHandler(noteUseCase, c.Logger()), nil
}
