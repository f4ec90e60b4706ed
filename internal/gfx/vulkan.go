package gfx

import (
	"fmt"
	"log"

	vk "github.com/vulkan-go/vulkan"
)

// VulkanBackend brings up a Vulkan instance and selects a physical device.
// The draw path is not wired yet; draw calls run through the embedded
// no-op backend until the pipeline work lands, so the engine can probe
// Vulkan availability without depending on it.
type VulkanBackend struct {
	*HeadlessBackend

	instance   vk.Instance
	gpu        vk.PhysicalDevice
	deviceName string
}

// NewVulkanBackend loads the Vulkan loader, creates an instance and picks
// the first physical device. Fails if no loader or device is present.
func NewVulkanBackend(appName string) (*VulkanBackend, error) {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, fmt.Errorf("could not load Vulkan loader: %v", err)
	}
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize Vulkan: %v", err)
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   appName + "\x00",
		ApplicationVersion: vk.MakeVersion(0, 1, 0),
		PEngineName:        "arbor\x00",
		EngineVersion:      vk.MakeVersion(0, 1, 0),
		ApiVersion:         vk.ApiVersion11,
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}, nil, &instance)
	if ret != vk.Success {
		return nil, fmt.Errorf("vkCreateInstance failed: %d", ret)
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, fmt.Errorf("could not load instance procs: %v", err)
	}

	var gpuCount uint32
	vk.EnumeratePhysicalDevices(instance, &gpuCount, nil)
	if gpuCount == 0 {
		vk.DestroyInstance(instance, nil)
		return nil, fmt.Errorf("no Vulkan physical devices found")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	vk.EnumeratePhysicalDevices(instance, &gpuCount, gpus)

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpus[0], &props)
	props.Deref()
	deviceName := vk.ToString(props.DeviceName[:])
	log.Printf("Vulkan device: %s", deviceName)

	return &VulkanBackend{
		HeadlessBackend: NewHeadlessBackend(),
		instance:        instance,
		gpu:             gpus[0],
		deviceName:      deviceName,
	}, nil
}

// Name identifies the backend and the selected device.
func (b *VulkanBackend) Name() string {
	return "Vulkan (" + b.deviceName + ")"
}

// DeviceName returns the selected physical device's name.
func (b *VulkanBackend) DeviceName() string { return b.deviceName }

// Teardown destroys the Vulkan instance.
func (b *VulkanBackend) Teardown() {
	if b.instance != nil {
		vk.DestroyInstance(b.instance, nil)
		b.instance = nil
	}
}
