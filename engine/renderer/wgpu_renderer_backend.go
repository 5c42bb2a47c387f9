package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-sword/common"
	"github.com/Carmen-Shannon/oxy-sword/engine/geometry"
	"github.com/Carmen-Shannon/oxy-sword/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-sword/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuTexture is the uploaded form of one material.Texture, shared by every mesh that references it.
type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	version uint64
}

func (t *gpuTexture) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// meshResources holds the GPU resources created for one scene.Mesh.
type meshResources struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32

	objectBuffer    *wgpu.Buffer
	objectBindGroup *wgpu.BindGroup

	materialBuffer    *wgpu.Buffer
	materialBindGroup *wgpu.BindGroup
	// boundView is the texture view materialBindGroup was built against.
	boundView *wgpu.TextureView
}

func (m *meshResources) release() {
	for _, bg := range []*wgpu.BindGroup{m.objectBindGroup, m.materialBindGroup} {
		if bg != nil {
			bg.Release()
		}
	}
	for _, buf := range []*wgpu.Buffer{m.vertexBuffer, m.indexBuffer, m.objectBuffer, m.materialBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	*m = meshResources{}
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	surfaceSRGB          bool
	outputColorSpace     common.ColorSpace
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	shaderModule   *wgpu.ShaderModule
	vertexEntry    string
	fragmentEntry  string
	frameLayout    *wgpu.BindGroupLayout
	objectLayout   *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	pipeline       *wgpu.RenderPipeline
	pipelineFormat wgpu.TextureFormat

	frameBuffer    *wgpu.Buffer
	frameBindGroup *wgpu.BindGroup

	meshes   map[scene.Mesh]*meshResources
	textures map[material.Texture]*gpuTexture
	samplers map[uint16]*wgpu.Sampler

	// Frame state for the render pass between BeginFrame and EndFrame
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Backend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) Backend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		meshes:      make(map[scene.Mesh]*meshResources),
		textures:    make(map[material.Texture]*gpuTexture),
		samplers:    make(map[uint16]*wgpu.Sampler),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initLayouts(); err != nil {
		panic(err)
	}
	return b
}

// initLayouts creates the shader module, the bind group layouts reflected from it, and the
// frame uniform.
//
//	group 0: frame uniform (camera, lights, output params)
//	group 1: object uniform (model and normal matrices)
//	group 2: material uniform, base color texture, sampler
func (b *wgpuRendererBackendImpl) initLayouts() error {
	refl, err := reflectStandardShader()
	if err != nil {
		return err
	}
	b.vertexEntry, b.fragmentEntry = refl.VertexEntryPoint, refl.FragmentEntryPoint

	b.shaderModule, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "standard.wgsl",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: standardShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}

	layouts := make([]*wgpu.BindGroupLayout, refl.GroupCount())
	labels := []string{"Frame", "Object", "Material"}
	for g := range layouts {
		layouts[g], err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   labels[g] + " Bind Group Layout",
			Entries: refl.GroupEntries(uint32(g)),
		})
		if err != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, err)
		}
	}
	b.frameLayout, b.objectLayout, b.materialLayout = layouts[0], layouts[1], layouts[2]

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Standard Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.objectLayout, b.materialLayout},
	})
	if err != nil {
		return err
	}

	b.frameBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  FrameUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.frameBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Frame Bind Group",
		Layout:  b.frameLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: b.frameBuffer, Size: wgpu.WholeSize}},
	})
	return err
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = chooseSurfaceFormat(capabilities.Formats, b.outputColorSpace == common.ColorSpaceSRGB)
	b.surfaceSRGB = isSRGBFormat(b.surfaceFormat)

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the resolved result is
		// written to the swapchain view as the ResolveTarget.
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = tex
		b.msaaTextureView, err = tex.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depth
	b.depthTextureView, err = depth.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// With MSAA, View is the MSAA texture and ResolveTarget is set per frame to
	// the swapchain view. Without it, View is set per frame.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	if b.pipeline == nil || b.pipelineFormat != b.surfaceFormat {
		if err := b.createPipeline(); err != nil {
			panic(err)
		}
	}
}

func (b *wgpuRendererBackendImpl) createPipeline() error {
	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Standard Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shaderModule,
			EntryPoint: b.vertexEntry,
			Buffers:    []wgpu.VertexBufferLayout{geometry.VertexBufferLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shaderModule,
			EntryPoint: b.fragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}
	b.pipeline = created
	b.pipelineFormat = b.surfaceFormat
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) SetOutputColorSpace(cs common.ColorSpace) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outputColorSpace = cs
}

func (b *wgpuRendererBackendImpl) SurfaceSRGB() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceSRGB
}

func (b *wgpuRendererBackendImpl) BeginFrame(clearColor [3]float32, frameUniform []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return errors.New("surface not configured")
	}
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.queue.WriteBuffer(b.frameBuffer, 0, frameUniform)

	attachment := &b.renderPassDescriptor.ColorAttachments[0]
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}
	attachment.ClearValue = wgpu.Color{
		R: float64(clearColor[0]),
		G: float64(clearColor[1]),
		B: float64(clearColor[2]),
		A: 1.0,
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.frameBindGroup, nil)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawMesh(m scene.Mesh, objectUniform, materialUniform []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("draw outside of a frame")
	}

	res, err := b.meshResources(m)
	if err != nil {
		return err
	}

	tex, err := b.syncTexture(m.Material().Texture())
	if err != nil {
		return err
	}
	if res.materialBindGroup == nil || res.boundView != tex.view {
		if err := b.bindMaterial(m, res, tex); err != nil {
			return err
		}
	}

	b.queue.WriteBuffer(res.objectBuffer, 0, objectUniform)
	b.queue.WriteBuffer(res.materialBuffer, 0, materialUniform)

	b.framePass.SetBindGroup(1, res.objectBindGroup, nil)
	b.framePass.SetBindGroup(2, res.materialBindGroup, nil)
	b.framePass.SetVertexBuffer(0, res.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(res.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(res.indexCount, 1, 0, 0, 0)
	return nil
}

// meshResources returns the cached resources for a mesh, tessellating and uploading its
// geometry on first use. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) meshResources(m scene.Mesh) (*meshResources, error) {
	if res, ok := b.meshes[m]; ok {
		return res, nil
	}

	vertices, indices := m.Geometry().Build()
	vertexData := geometry.MarshalVertices(vertices)
	indexData := common.SliceToBytes(indices)

	res := &meshResources{indexCount: uint32(len(indices))}
	var err error
	res.vertexBuffer, err = b.createBuffer(m.Name()+" Vertex Buffer", vertexData, wgpu.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	res.indexBuffer, err = b.createBuffer(m.Name()+" Index Buffer", indexData, wgpu.BufferUsageIndex)
	if err != nil {
		res.release()
		return nil, err
	}
	res.objectBuffer, err = b.createBuffer(m.Name()+" Object Buffer", make([]byte, ObjectUniformSize), wgpu.BufferUsageUniform)
	if err != nil {
		res.release()
		return nil, err
	}
	res.materialBuffer, err = b.createBuffer(m.Name()+" Material Buffer", make([]byte, (&material.GPUMaterialUniform{}).Size()), wgpu.BufferUsageUniform)
	if err != nil {
		res.release()
		return nil, err
	}

	res.objectBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   m.Name() + " Object Bind Group",
		Layout:  b.objectLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: res.objectBuffer, Size: wgpu.WholeSize}},
	})
	if err != nil {
		res.release()
		return nil, err
	}

	b.meshes[m] = res
	return res, nil
}

func (b *wgpuRendererBackendImpl) createBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// syncTexture returns the GPU copy of a texture, uploading it again when its version moved.
// A nil texture resolves to the shared default image. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) syncTexture(t material.Texture) (*gpuTexture, error) {
	var img *common.TextureStagingData
	var version uint64
	if t != nil {
		img, version = t.Image()
	} else {
		img = material.DefaultImage()
	}

	cached, ok := b.textures[t]
	if ok && cached.version == version && cached.view != nil {
		return cached, nil
	}
	if !ok {
		cached = &gpuTexture{}
		b.textures[t] = cached
	}

	label := "Default Texture"
	if t != nil {
		label = t.Name()
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              img.Width(),
			Height:             img.Height(),
			DepthOrArrayLayers: 1,
		},
		// sRGB decoding happens in the shader, driven by the material uniform.
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: uint32(len(img.Levels)),
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}

	for level, l := range img.Levels {
		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: uint32(level),
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			l.Pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  l.Width * 4,
				RowsPerImage: l.Height,
			},
			&wgpu.Extent3D{
				Width:              l.Width,
				Height:             l.Height,
				DepthOrArrayLayers: 1,
			},
		)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create texture view %q: %w", label, err)
	}

	cached.release()
	cached.texture = tex
	cached.view = view
	cached.version = version
	return cached, nil
}

// sampler returns a linear, repeating, mipmapped sampler for an anisotropy level. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) sampler(anisotropy uint16) (*wgpu.Sampler, error) {
	if s, ok := b.samplers[anisotropy]; ok {
		return s, nil
	}

	staging := common.SamplerStagingData{MaxAnisotropy: anisotropy}
	s, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         fmt.Sprintf("Sampler x%d", anisotropy),
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(staging.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}
	b.samplers[anisotropy] = s
	return s, nil
}

// bindMaterial (re)builds the group 2 bind group of a mesh. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) bindMaterial(m scene.Mesh, res *meshResources, tex *gpuTexture) error {
	anisotropy := uint16(1)
	if t := m.Material().Texture(); t != nil {
		anisotropy = t.Anisotropy()
	}
	samp, err := b.sampler(anisotropy)
	if err != nil {
		return err
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  m.Name() + " Material Bind Group",
		Layout: b.materialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: res.materialBuffer, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: tex.view},
			{Binding: 2, Sampler: samp},
		},
	})
	if err != nil {
		return err
	}
	if res.materialBindGroup != nil {
		res.materialBindGroup.Release()
	}
	res.materialBindGroup = bg
	res.boundView = tex.view
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
		b.releaseFrameSurface()
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameSurface()
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for m, res := range b.meshes {
		res.release()
		delete(b.meshes, m)
	}
	for t, tex := range b.textures {
		tex.release()
		delete(b.textures, t)
	}
	for k, s := range b.samplers {
		s.Release()
		delete(b.samplers, k)
	}
	b.releaseAttachments()
	b.releaseFrameSurface()

	if b.pipeline != nil {
		b.pipeline.Release()
		b.pipeline = nil
	}
	if b.frameBindGroup != nil {
		b.frameBindGroup.Release()
		b.frameBindGroup = nil
	}
	if b.frameBuffer != nil {
		b.frameBuffer.Release()
		b.frameBuffer = nil
	}
	for _, l := range []*wgpu.BindGroupLayout{b.frameLayout, b.objectLayout, b.materialLayout} {
		if l != nil {
			l.Release()
		}
	}
	b.frameLayout, b.objectLayout, b.materialLayout = nil, nil, nil
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
		b.pipelineLayout = nil
	}
	if b.shaderModule != nil {
		b.shaderModule.Release()
		b.shaderModule = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// releaseAttachments frees the size-dependent MSAA and depth textures. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

// releaseFrameSurface drops the swapchain texture held between BeginFrame and Present. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

// chooseSurfaceFormat picks the first offered format whose sRGB-ness matches the request,
// falling back to the adapter's preferred (first) format.
func chooseSurfaceFormat(formats []wgpu.TextureFormat, wantSRGB bool) wgpu.TextureFormat {
	for _, f := range formats {
		if isSRGBFormat(f) == wantSRGB {
			return f
		}
	}
	if len(formats) > 0 {
		return formats[0]
	}
	return wgpu.TextureFormatBGRA8Unorm
}

func isSRGBFormat(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb:
		return true
	default:
		return false
	}
}
