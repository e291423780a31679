package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/carddex/pkg/app/screens"
)

type App struct {
	controller screens.Controller
}

func NewApp(controller screens.Controller) *App {
	return &App{controller: controller}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.controller)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
