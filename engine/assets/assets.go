package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/seethrough/engine/assets/loaders"
	"github.com/spaghettifunk/seethrough/engine/core"
)

type AssetType uint8

const (
	AssetTypeNone AssetType = iota
	// A see-through pass configuration, under a "config" directory.
	AssetTypePassConfig
	// A scene description, under a "scenes" directory.
	AssetTypeScene
)

func (t AssetType) String() string {
	switch t {
	case AssetTypePassConfig:
		return "pass-config"
	case AssetTypeScene:
		return "scene"
	}
	return "none"
}

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
}

// ReloadFunc is called from the watcher goroutine with the path of a
// created or modified asset.
type ReloadFunc func(path string, assetType AssetType)

/**
 * @brief Indexes the configuration assets under a directory and watches it
 * for changes, calling the registered reload callbacks.
 */
type AssetManager struct {
	assets   map[string]AssetInfo
	loaders  map[AssetType]Loader
	onReload map[AssetType][]ReloadFunc

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[AssetType]Loader),
		onReload: make(map[AssetType][]ReloadFunc),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	am.registerLoader(AssetTypePassConfig, LoaderFunc(func(path string) (interface{}, error) {
		return loaders.LoadPassConfig(path)
	}))
	am.registerLoader(AssetTypeScene, LoaderFunc(func(path string) (interface{}, error) {
		return loaders.LoadScene(path)
	}))
	return am, nil
}

// Initialize indexes assetsDir and starts watching it and its
// sub-directories.
func (am *AssetManager) Initialize(assetsDir string) error {
	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}
	am.wg.Add(1)
	go am.start()
	core.LogDebug("watching '%s' (%d asset(s) indexed)", assetsDir, len(am.Assets()))
	return nil
}

// OnReload registers fn to be called when an asset of assetType changes.
func (am *AssetManager) OnReload(assetType AssetType, fn ReloadFunc) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.onReload[assetType] = append(am.onReload[assetType], fn)
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	return am.watchRecursive(name)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType AssetType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadAsset decodes an indexed asset with the loader of its type.
func (am *AssetManager) LoadAsset(path string) (interface{}, error) {
	am.mutex.Lock()
	asset, exists := am.assets[path]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[path] = asset
	}
	am.mutex.Unlock()
	if !exists {
		return nil, &os.PathError{Op: "load", Path: path, Err: os.ErrNotExist}
	}

	loader, ok := am.loaders[asset.Type]
	if !ok {
		return nil, errors.New("no loader registered for asset type " + asset.Type.String())
	}
	return loader.Load(path)
}

// Lookup returns the index entry of path.
func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[filepath.Clean(path)]
	return info, ok
}

// Assets returns the indexed asset paths.
func (am *AssetManager) Assets() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	paths := make([]string, 0, len(am.assets))
	for p := range am.assets {
		paths = append(paths, p)
	}
	return paths
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogError(err.Error())
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if info, ok := am.handleFileEvent(e.Name); ok {
					am.notify(info)
				}
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) notify(info AssetInfo) {
	am.mutex.RLock()
	callbacks := append([]ReloadFunc(nil), am.onReload[info.Type]...)
	am.mutex.RUnlock()
	core.LogInfo("%s '%s' changed", info.Type, info.Path)
	for _, fn := range callbacks {
		fn(info.Path, info.Type)
	}
}

// watchRecursive adds all directories under the given one to the watch
// list and indexes the files it finds.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	path = filepath.Clean(path)
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return AssetInfo{}, false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info := AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	am.assets[path] = info
	return info, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, filepath.Clean(path))
}

// Close stops the watcher and waits for its goroutine to exit.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	err := am.fsnotify.Close()
	am.wg.Wait()
	return err
}

func determineAssetType(path string) AssetType {
	if !loaders.IsConfigFile(path) {
		return AssetTypeNone
	}
	switch filepath.Base(filepath.Dir(path)) {
	case "config":
		return AssetTypePassConfig
	case "scenes":
		return AssetTypeScene
	default:
		return AssetTypeNone
	}
}
