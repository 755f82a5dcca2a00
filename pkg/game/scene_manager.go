package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager controls which scene is active.
// Only the current scene's Update and Draw are called.
type SceneManager struct {
	currentScene Scene
}

// NewSceneManager creates a manager with no active scene; use SwitchTo to set one.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo changes the active scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
	log.Printf("[SceneManager] Switched to %T", scene)
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// SaveOnExit 如果当前场景实现了 Saveable，调用其 SaveOnExit
func (sm *SceneManager) SaveOnExit() bool {
	if s, ok := sm.currentScene.(Saveable); ok {
		return s.SaveOnExit()
	}
	return true
}

// Update updates the currently active scene.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
